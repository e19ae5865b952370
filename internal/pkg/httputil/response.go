package httputil

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/render"
	"github.com/ignite/mailchimp-bridge/internal/pkg/logger"
)

// maxBodyBytes caps how much of a request body is read.
const maxBodyBytes = 1 << 20

// ErrorResponse is the standard error envelope for all API errors.
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Empty is the body returned by successful deletes.
var Empty = struct{}{}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	render.Status(r, status)
	render.JSON(w, r, data)
}

// OK writes a 200 response with the given data.
func OK(w http.ResponseWriter, r *http.Request, data any) {
	JSON(w, r, http.StatusOK, data)
}

// Error writes a JSON error response carrying only a message.
func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	JSON(w, r, status, ErrorResponse{Message: message})
}

// Invalid writes a 400 with a per-field error map.
func Invalid(w http.ResponseWriter, r *http.Request, message string, errs map[string][]string) {
	JSON(w, r, http.StatusBadRequest, ErrorResponse{Message: message, Errors: errs})
}

// NotFound writes a 404 error.
func NotFound(w http.ResponseWriter, r *http.Request, message string) {
	Error(w, r, http.StatusNotFound, message)
}

// InternalError writes a 500 error. Logs the real error but returns the
// given client-safe message.
func InternalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	logger.Error("internal error", "method", r.Method, "path", r.URL.Path, "error", err)
	Error(w, r, http.StatusInternalServerError, message)
}

// ErrBodyTooLarge is returned by ReadBody for bodies over maxBodyBytes.
var ErrBodyTooLarge = errors.New("request body too large")

// ReadBody returns the raw request body. Bodies over maxBodyBytes are
// rejected with ErrBodyTooLarge rather than truncated.
func ReadBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return nil, ErrBodyTooLarge
	}
	return body, err
}

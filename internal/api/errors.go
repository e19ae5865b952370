package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ignite/mailchimp-bridge/internal/domain"
	"github.com/ignite/mailchimp-bridge/internal/pkg/distlock"
	"github.com/ignite/mailchimp-bridge/internal/pkg/httputil"
	"github.com/ignite/mailchimp-bridge/internal/service"
)

const lockedMessage = "The resource is being modified by another request. Try again."

// respondServiceError converts a service error into its HTTP response.
// Anything unrecognized is a 500 whose body never carries the raw error.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		notFound *service.NotFoundError
		invalid  domain.FieldErrors
		external *service.ExternalError
	)
	switch {
	case errors.As(err, &notFound):
		httputil.NotFound(w, r, notFound.Error())
	case errors.As(err, &invalid):
		httputil.Invalid(w, r, domain.InvalidDataMessage, invalid)
	case errors.Is(err, distlock.ErrBusy):
		httputil.Error(w, r, http.StatusConflict, lockedMessage)
	case errors.As(err, &external):
		httputil.Error(w, r, http.StatusBadRequest, external.Error())
	default:
		httputil.InternalError(w, r, err, safeErrorMessage(err))
	}
}

// safeErrorMessage maps common internal error patterns to public-safe messages.
func safeErrorMessage(internalErr error) string {
	if internalErr == nil {
		return "An internal error occurred"
	}

	errStr := strings.ToLower(internalErr.Error())

	switch {
	case strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "dial tcp"):
		return "Service temporarily unavailable"

	case strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "context canceled"):
		return "Request timed out"

	case strings.Contains(errStr, "sql") ||
		strings.Contains(errStr, "pq:") ||
		strings.Contains(errStr, "save ") ||
		strings.Contains(errStr, "find ") ||
		strings.Contains(errStr, "remove ") ||
		strings.Contains(errStr, "database"):
		return "A database error occurred"

	default:
		return "An internal error occurred"
	}
}

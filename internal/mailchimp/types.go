package mailchimp

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Config holds MailChimp API client configuration
type Config struct {
	APIKey  string
	BaseURL string // optional; derived from the API key data center when empty
	Timeout time.Duration
}

// Response is a decoded MailChimp JSON object.
type Response map[string]any

// Get returns the value stored under key, or nil.
func (r Response) Get(key string) any {
	if r == nil {
		return nil
	}
	return r[key]
}

// GetString returns the value under key when it is a string, "" otherwise.
func (r Response) GetString(key string) string {
	s, _ := r.Get(key).(string)
	return s
}

// FieldError is one entry of the errors array in a problem-detail body.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// APIError is a non-2xx answer from MailChimp, decoded from its
// problem-detail JSON document.
type APIError struct {
	Status   int          `json:"status"`
	Type     string       `json:"type"`
	Title    string       `json:"title"`
	Detail   string       `json:"detail"`
	Instance string       `json:"instance"`
	Errors   []FieldError `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	title := e.Title
	if title == "" {
		title = http.StatusText(e.Status)
	}
	if title == "" {
		title = fmt.Sprintf("status %d", e.Status)
	}
	if e.Detail == "" {
		return title
	}
	msg := title + ": " + e.Detail
	if len(e.Errors) > 0 {
		parts := make([]string, 0, len(e.Errors))
		for _, fe := range e.Errors {
			parts = append(parts, fe.Field+" "+fe.Message)
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	return msg
}

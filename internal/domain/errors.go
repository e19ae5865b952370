package domain

import (
	"errors"
	"sort"
	"strings"
)

// ErrDuplicateMember is returned by stores when (email_address, list_id) is
// already taken.
var ErrDuplicateMember = errors.New("member already exists on list")

// InvalidDataMessage is the top-level message of every validation failure.
const InvalidDataMessage = "Invalid data given"

// FieldErrors maps a payload key (dotted for nested values, e.g.
// "location.latitude") to its human readable messages.
type FieldErrors map[string][]string

// Add appends msg to field.
func (e FieldErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Has reports whether field already has at least one message.
func (e FieldErrors) Has(field string) bool {
	return len(e[field]) > 0
}

// Merge copies every message of other into e.
func (e FieldErrors) Merge(other FieldErrors) {
	for field, msgs := range other {
		e[field] = append(e[field], msgs...)
	}
}

// Error lists the failing fields so the error reads well in logs.
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return InvalidDataMessage + ": " + strings.Join(fields, ", ")
}

// OrNil returns nil when e has no messages, so callers can return it as error.
func (e FieldErrors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

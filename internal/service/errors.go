package service

import (
	"errors"
	"fmt"
)

// NotFoundError reports a missing local record. Its message is returned to
// clients verbatim.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s[%s] not found", e.Entity, e.ID)
}

// ListNotFound builds the error for a missing list.
func ListNotFound(id string) error {
	return &NotFoundError{Entity: "MailChimpList", ID: id}
}

// MemberNotFound builds the error for a missing member.
func MemberNotFound(id string) error {
	return &NotFoundError{Entity: "MailChimpMember", ID: id}
}

// ExternalError wraps a failed MailChimp call. The local write that preceded
// the call is kept.
type ExternalError struct {
	Op  string
	Err error
}

func (e *ExternalError) Error() string {
	return e.Err.Error()
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}

// ErrListNotSynced is returned when a list has no MailChimp id yet, so
// nothing can be addressed remotely under it.
var ErrListNotSynced = errors.New("list has not been created in MailChimp yet")

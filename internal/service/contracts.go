package service

import (
	"context"

	"github.com/ignite/mailchimp-bridge/internal/mailchimp"
)

// MailChimp is the part of the MailChimp client the services call.
type MailChimp interface {
	Post(ctx context.Context, path string, body any) (mailchimp.Response, error)
	Patch(ctx context.Context, path string, body any) (mailchimp.Response, error)
	Delete(ctx context.Context, path string, body any) (mailchimp.Response, error)
}

// Locker serializes mutations that share a key.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

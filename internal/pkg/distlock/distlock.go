package distlock

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/mailchimp-bridge/internal/pkg/logger"
)

// ErrBusy is returned when a lock is still held by someone else after the
// configured wait.
var ErrBusy = errors.New("resource is locked by another request")

// ErrLockLost is returned by Extend when the lock is no longer held.
var ErrLockLost = errors.New("lock no longer held")

// DistLock is the interface for distributed locking.
// Implementations must be safe for use from a single goroutine;
// concurrent use across goroutines requires separate lock instances.
type DistLock interface {
	// Acquire tries to acquire the lock. Returns true if successful.
	Acquire(ctx context.Context) (bool, error)
	// Extend renews the lock's lease.
	Extend(ctx context.Context) error
	// Release releases the lock if we still own it.
	Release(ctx context.Context) error
}

// NewLock creates a distributed lock using the best available backend.
// If redisClient is non-nil, uses Redis (preferred for cross-host locking).
// Otherwise falls back to PostgreSQL advisory locks.
func NewLock(redisClient *redis.Client, db *sql.DB, key string, ttl time.Duration) DistLock {
	if redisClient != nil {
		return NewRedisLock(redisClient, key, ttl)
	}
	return NewPGAdvisoryLock(db, key)
}

// Manager hands out short-lived locks and runs work while holding them.
type Manager struct {
	redis *redis.Client
	db    *sql.DB
	ttl   time.Duration
	wait  time.Duration
	retry time.Duration

	// newLock is swapped in tests.
	newLock func(key string) DistLock
}

// NewManager creates a Manager. wait bounds how long WithLock polls a busy
// lock, retry is the pause between attempts.
func NewManager(redisClient *redis.Client, db *sql.DB, ttl, wait, retry time.Duration) *Manager {
	m := &Manager{redis: redisClient, db: db, ttl: ttl, wait: wait, retry: retry}
	m.newLock = func(key string) DistLock {
		return NewLock(m.redis, m.db, key, m.ttl)
	}
	if m.retry <= 0 {
		m.retry = 50 * time.Millisecond
	}
	return m
}

// WithLock runs fn while holding the lock for key. It returns ErrBusy when
// the lock could not be taken within the wait. The lock is renewed every
// third of its TTL until fn returns; if a renewal finds the lock gone, fn's
// context is cancelled.
func (m *Manager) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	lock := m.newLock(key)
	if err := m.acquire(ctx, lock); err != nil {
		return err
	}
	defer func() {
		// release even when the request context is already gone
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		_ = lock.Release(rctx)
	}()

	fnCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		m.renew(fnCtx, key, lock, done, cancel)
	}()
	// renewal must be finished before the release above runs
	defer func() {
		close(done)
		<-stopped
	}()

	return fn(fnCtx)
}

func (m *Manager) renew(ctx context.Context, key string, lock DistLock, done <-chan struct{}, cancel context.CancelCauseFunc) {
	if m.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(m.ttl / 3)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := lock.Extend(ctx); err != nil {
				logger.Warn("lock renewal failed", "key", key, "error", err)
				cancel(fmt.Errorf("lock %s: %w", key, err))
				return
			}
		}
	}
}

func (m *Manager) acquire(ctx context.Context, lock DistLock) error {
	deadline := time.Now().Add(m.wait)
	for {
		ok, err := lock.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("acquire lock: %w", err)
		}
		if ok {
			return nil
		}
		if !time.Now().Before(deadline) {
			return ErrBusy
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.retry):
		}
	}
}

// Nop satisfies the same contract as Manager without locking anything.
type Nop struct{}

// WithLock runs fn directly.
func (Nop) WithLock(ctx context.Context, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

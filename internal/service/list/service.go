package list

import (
	"context"
	"fmt"

	"github.com/ignite/mailchimp-bridge/internal/domain"
	"github.com/ignite/mailchimp-bridge/internal/pkg/logger"
	"github.com/ignite/mailchimp-bridge/internal/service"
)

// Service implements list business logic. It is safe for concurrent use.
type Service struct {
	repo   Repository
	api    service.MailChimp
	locker service.Locker
}

// NewService creates a list service.
func NewService(repo Repository, api service.MailChimp, locker service.Locker) *Service {
	return &Service{repo: repo, api: api, locker: locker}
}

func lockKey(listID string) string {
	return "list:" + listID
}

// Create stores a new list and creates it in MailChimp, keeping the id
// MailChimp assigns.
func (s *Service) Create(ctx context.Context, p domain.Payload) (*domain.List, error) {
	l, typeErrs := domain.NewList(p)
	if errs := l.Validate(typeErrs); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Save(ctx, l); err != nil {
		return nil, fmt.Errorf("save list: %w", err)
	}

	resp, err := s.api.Post(ctx, "lists", l.ToMailChimpMap())
	if err != nil {
		return nil, s.unsynced(l, "create list", err)
	}
	if id := resp.GetString("id"); id != "" {
		l.MailChimpID = &id
		if err := s.repo.Save(ctx, l); err != nil {
			return nil, fmt.Errorf("save list: %w", err)
		}
	}

	logger.Info("list created", "list_id", l.ID, "mail_chimp_id", l.MailChimpIDOrEmpty())
	return l, nil
}

// Show returns one list.
func (s *Service) Show(ctx context.Context, listID string) (*domain.List, error) {
	return s.find(ctx, listID)
}

// Update overlays p onto a stored list and pushes it to MailChimp.
func (s *Service) Update(ctx context.Context, listID string, p domain.Payload) (*domain.List, error) {
	var l *domain.List
	err := s.locker.WithLock(ctx, lockKey(listID), func(ctx context.Context) error {
		var err error
		if l, err = s.find(ctx, listID); err != nil {
			return err
		}

		typeErrs := l.Fill(p)
		if errs := l.Validate(typeErrs); len(errs) > 0 {
			return errs
		}
		if err := s.repo.Save(ctx, l); err != nil {
			return fmt.Errorf("save list: %w", err)
		}
		if l.MailChimpIDOrEmpty() == "" {
			return s.unsynced(l, "update list", service.ErrListNotSynced)
		}
		if _, err := s.api.Patch(ctx, "lists/"+l.MailChimpIDOrEmpty(), l.ToMailChimpMap()); err != nil {
			return s.unsynced(l, "update list", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("list updated", "list_id", l.ID)
	return l, nil
}

// Remove deletes a list, with its members, locally and in MailChimp. A list
// that never reached MailChimp is only deleted locally.
func (s *Service) Remove(ctx context.Context, listID string) error {
	return s.locker.WithLock(ctx, lockKey(listID), func(ctx context.Context) error {
		l, err := s.find(ctx, listID)
		if err != nil {
			return err
		}

		if err := s.repo.Remove(ctx, l); err != nil {
			return fmt.Errorf("remove list: %w", err)
		}
		if l.MailChimpIDOrEmpty() == "" {
			logger.Warn("removed list that was never synced", "list_id", l.ID)
			return nil
		}
		if _, err := s.api.Delete(ctx, "lists/"+l.MailChimpIDOrEmpty(), nil); err != nil {
			return s.unsynced(l, "remove list", err)
		}
		logger.Info("list removed", "list_id", l.ID)
		return nil
	})
}

func (s *Service) find(ctx context.Context, listID string) (*domain.List, error) {
	l, err := s.repo.Find(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("find list: %w", err)
	}
	if l == nil {
		return nil, service.ListNotFound(listID)
	}
	return l, nil
}

func (s *Service) unsynced(l *domain.List, op string, err error) error {
	logger.Error("list not synced to MailChimp", "op", op, "list_id", l.ID, "error", err)
	return &service.ExternalError{Op: op, Err: err}
}

package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/ignite/mailchimp-bridge/internal/domain"
	"github.com/ignite/mailchimp-bridge/internal/pkg/logger"
	"github.com/ignite/mailchimp-bridge/internal/service"
)

// Service implements member business logic. It is safe for concurrent use.
type Service struct {
	members Repository
	lists   ListFinder
	api     service.MailChimp
	locker  service.Locker
}

// NewService creates a member service.
func NewService(members Repository, lists ListFinder, api service.MailChimp, locker service.Locker) *Service {
	return &Service{members: members, lists: lists, api: api, locker: locker}
}

// LockKey is the mutation lock key of one stored member. Update and Remove
// hold it across the read, the local write and the MailChimp call.
func LockKey(listID, memberID string) string {
	return fmt.Sprintf("member:%s:%s", listID, memberID)
}

// SubscriberLockKey serializes creates of one address on one list, before a
// member id exists.
func SubscriberLockKey(listID, subscriberHash string) string {
	return fmt.Sprintf("subscriber:%s:%s", listID, subscriberHash)
}

// Create adds a member to a list locally and in MailChimp.
func (s *Service) Create(ctx context.Context, listID string, p domain.Payload) (*domain.Member, error) {
	list, err := s.findList(ctx, listID)
	if err != nil {
		return nil, err
	}

	m, typeErrs := domain.NewMember(p)
	m.ListID = list.ID
	if errs := m.Validate(typeErrs); len(errs) > 0 {
		return nil, errs
	}

	err = s.locker.WithLock(ctx, SubscriberLockKey(list.ID, m.SubscriberHash()), func(ctx context.Context) error {
		if err := s.save(ctx, m); err != nil {
			return err
		}

		remoteID, err := remoteListID(list)
		if err != nil {
			return s.unsynced(m, "create member", err)
		}
		resp, err := s.api.Post(ctx, fmt.Sprintf("lists/%s/members", remoteID), m.ToMailChimpMap())
		if err != nil {
			return s.unsynced(m, "create member", err)
		}

		if id := resp.GetString("unique_email_id"); id != "" {
			m.MailChimpUniqueEmailID = &id
			return s.save(ctx, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("member created", "member_id", m.ID, "list_id", list.ID, "subscriber_hash", m.SubscriberHash())
	return m, nil
}

// Show returns one member of a list.
func (s *Service) Show(ctx context.Context, listID, memberID string) (*domain.Member, error) {
	return s.findMember(ctx, listID, memberID)
}

// Update overlays p onto an existing member and pushes the result to
// MailChimp. Keys absent from p keep their stored value.
func (s *Service) Update(ctx context.Context, listID, memberID string, p domain.Payload) (*domain.Member, error) {
	list, err := s.findList(ctx, listID)
	if err != nil {
		return nil, err
	}

	var m *domain.Member
	err = s.locker.WithLock(ctx, LockKey(list.ID, memberID), func(ctx context.Context) error {
		var err error
		if m, err = s.findMember(ctx, list.ID, memberID); err != nil {
			return err
		}

		// MailChimp still knows the member by its stored address.
		hash := m.SubscriberHash()

		typeErrs := m.Fill(p)
		if errs := m.Validate(typeErrs); len(errs) > 0 {
			return errs
		}
		if err := s.save(ctx, m); err != nil {
			return err
		}

		remoteID, err := remoteListID(list)
		if err != nil {
			return s.unsynced(m, "update member", err)
		}
		resp, err := s.api.Patch(ctx, fmt.Sprintf("lists/%s/members/%s", remoteID, hash), m.ToMailChimpMap())
		if err != nil {
			return s.unsynced(m, "update member", err)
		}

		if id := resp.GetString("unique_email_id"); id != "" && (m.MailChimpUniqueEmailID == nil || *m.MailChimpUniqueEmailID != id) {
			m.MailChimpUniqueEmailID = &id
			return s.save(ctx, m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("member updated", "member_id", m.ID, "list_id", list.ID, "status", string(m.Status))
	return m, nil
}

// Remove deletes a member locally and in MailChimp.
func (s *Service) Remove(ctx context.Context, listID, memberID string) error {
	list, err := s.findList(ctx, listID)
	if err != nil {
		return err
	}

	return s.locker.WithLock(ctx, LockKey(list.ID, memberID), func(ctx context.Context) error {
		m, err := s.findMember(ctx, list.ID, memberID)
		if err != nil {
			return err
		}
		hash := m.SubscriberHash()

		if err := s.members.Remove(ctx, m); err != nil {
			return fmt.Errorf("remove member: %w", err)
		}

		remoteID, err := remoteListID(list)
		if err != nil {
			return s.unsynced(m, "remove member", err)
		}
		if _, err := s.api.Delete(ctx, fmt.Sprintf("lists/%s/members/%s", remoteID, hash), nil); err != nil {
			return s.unsynced(m, "remove member", err)
		}

		logger.Info("member removed", "member_id", m.ID, "list_id", list.ID)
		return nil
	})
}

func (s *Service) findList(ctx context.Context, listID string) (*domain.List, error) {
	list, err := s.lists.Find(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("find list: %w", err)
	}
	if list == nil {
		return nil, service.ListNotFound(listID)
	}
	return list, nil
}

func (s *Service) findMember(ctx context.Context, listID, memberID string) (*domain.Member, error) {
	m, err := s.members.FindOneBy(ctx, Criteria{MemberID: memberID, ListID: listID})
	if err != nil {
		return nil, fmt.Errorf("find member: %w", err)
	}
	if m == nil {
		return nil, service.MemberNotFound(memberID)
	}
	return m, nil
}

func (s *Service) save(ctx context.Context, m *domain.Member) error {
	err := s.members.Save(ctx, m)
	if errors.Is(err, domain.ErrDuplicateMember) {
		errs := domain.FieldErrors{}
		errs.Add("email_address", "The email address has already been taken.")
		return errs
	}
	if err != nil {
		return fmt.Errorf("save member: %w", err)
	}
	return nil
}

func (s *Service) unsynced(m *domain.Member, op string, err error) error {
	logger.Error("member not synced to MailChimp",
		"op", op,
		"member_id", m.ID,
		"list_id", m.ListID,
		"error", err,
	)
	return &service.ExternalError{Op: op, Err: err}
}

func remoteListID(list *domain.List) (string, error) {
	if list.MailChimpID == nil || *list.MailChimpID == "" {
		return "", fmt.Errorf("MailChimpList[%s]: %w", list.ID, service.ErrListNotSynced)
	}
	return *list.MailChimpID, nil
}

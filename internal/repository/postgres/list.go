package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignite/mailchimp-bridge/internal/domain"
)

// ListRepo implements list.Repository against PostgreSQL.
type ListRepo struct{ db *sql.DB }

// NewListRepo creates a Postgres-backed list repository.
func NewListRepo(db *sql.DB) *ListRepo { return &ListRepo{db: db} }

const listColumns = `id, mail_chimp_id, name, permission_reminder, use_archive_bar,
	campaign_defaults, notify_on_subscribe, notify_on_unsubscribe,
	email_type_option, visibility, contact`

// Find returns the list with the given id, or nil when there is none.
func (r *ListRepo) Find(ctx context.Context, id string) (*domain.List, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	row := r.db.QueryRowContext(ctx,
		`SELECT `+listColumns+` FROM mail_chimp_lists WHERE id = $1`, id)

	l, err := scanList(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find list: %w", err)
	}
	return l, nil
}

func scanList(row scanner) (*domain.List, error) {
	var (
		l        domain.List
		defaults []byte
		contact  []byte
	)
	err := row.Scan(&l.ID, &l.MailChimpID, &l.Name, &l.PermissionReminder, &l.UseArchiveBar,
		&defaults, &l.NotifyOnSubscribe, &l.NotifyOnUnsubscribe,
		&l.EmailTypeOption, &l.Visibility, &contact)
	if err != nil {
		return nil, err
	}
	if err := scanJSON(defaults, &l.CampaignDefaults); err != nil {
		return nil, fmt.Errorf("decode campaign_defaults: %w", err)
	}
	if err := scanJSON(contact, &l.Contact); err != nil {
		return nil, fmt.Errorf("decode contact: %w", err)
	}
	return &l, nil
}

// Save inserts l when it has no id yet and updates it otherwise.
func (r *ListRepo) Save(ctx context.Context, l *domain.List) error {
	defaults, err := jsonParam(l.CampaignDefaults)
	if err != nil {
		return fmt.Errorf("encode campaign_defaults: %w", err)
	}
	contact, err := jsonParam(l.Contact)
	if err != nil {
		return fmt.Errorf("encode contact: %w", err)
	}

	if l.ID == "" {
		id := uuid.New().String()
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO mail_chimp_lists (`+listColumns+`, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		`, id, l.MailChimpID, l.Name, l.PermissionReminder, l.UseArchiveBar,
			defaults, l.NotifyOnSubscribe, l.NotifyOnUnsubscribe,
			l.EmailTypeOption, l.Visibility, contact)
		if err != nil {
			return fmt.Errorf("insert list: %w", err)
		}
		l.ID = id
		return nil
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE mail_chimp_lists SET
			mail_chimp_id = $2, name = $3, permission_reminder = $4, use_archive_bar = $5,
			campaign_defaults = $6, notify_on_subscribe = $7, notify_on_unsubscribe = $8,
			email_type_option = $9, visibility = $10, contact = $11, updated_at = NOW()
		WHERE id = $1
	`, l.ID, l.MailChimpID, l.Name, l.PermissionReminder, l.UseArchiveBar,
		defaults, l.NotifyOnSubscribe, l.NotifyOnUnsubscribe,
		l.EmailTypeOption, l.Visibility, contact)
	if err != nil {
		return fmt.Errorf("update list: %w", err)
	}
	return nil
}

// Remove deletes l. Its members go with it (ON DELETE CASCADE).
func (r *ListRepo) Remove(ctx context.Context, l *domain.List) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM mail_chimp_lists WHERE id = $1`, l.ID); err != nil {
		return fmt.Errorf("remove list: %w", err)
	}
	return nil
}

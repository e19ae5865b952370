package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/ignite/mailchimp-bridge/internal/domain"
	"github.com/ignite/mailchimp-bridge/internal/service/member"
	"github.com/lib/pq"
)

// MemberRepo implements member.Repository against PostgreSQL.
type MemberRepo struct{ db *sql.DB }

// NewMemberRepo creates a Postgres-backed member repository.
func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{db: db} }

const memberColumns = `id, unique_email_id, mail_chimp_unique_email_id, list_id,
	email_address, email_type, status, merge_fields, interests, language, vip,
	location, marketing_permissions, ip_signup, timestamp_signup, ip_opt,
	timestamp_opt, tags`

// FindOneBy returns the member matching c, or nil when there is none.
func (r *MemberRepo) FindOneBy(ctx context.Context, c member.Criteria) (*domain.Member, error) {
	if _, err := uuid.Parse(c.MemberID); err != nil {
		return nil, nil
	}
	if _, err := uuid.Parse(c.ListID); err != nil {
		return nil, nil
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM mail_chimp_members WHERE id = $1 AND list_id = $2`,
		c.MemberID, c.ListID)

	m, err := scanMember(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find member: %w", err)
	}
	return m, nil
}

func scanMember(row scanner) (*domain.Member, error) {
	var (
		m                                       domain.Member
		status                                  string
		mergeFields, interests, location, perms []byte
	)
	err := row.Scan(&m.ID, &m.UniqueEmailID, &m.MailChimpUniqueEmailID, &m.ListID,
		&m.EmailAddress, &m.EmailType, &status, &mergeFields, &interests, &m.Language, &m.VIP,
		&location, &perms, &m.IPSignup, &m.TimestampSignup, &m.IPOpt,
		&m.TimestampOpt, pq.Array(&m.Tags))
	if err != nil {
		return nil, err
	}
	m.Status = domain.MemberStatus(status)

	for _, col := range []struct {
		name string
		raw  []byte
		dst  any
	}{
		{"merge_fields", mergeFields, &m.MergeFields},
		{"interests", interests, &m.Interests},
		{"location", location, &m.Location},
		{"marketing_permissions", perms, &m.MarketingPermissions},
	} {
		if err := scanJSON(col.raw, col.dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", col.name, err)
		}
	}
	return &m, nil
}

// Save inserts m when it has no id yet and updates it otherwise. A taken
// (email_address, list_id) pair returns domain.ErrDuplicateMember.
func (r *MemberRepo) Save(ctx context.Context, m *domain.Member) error {
	var params [4]any
	for i, v := range []any{m.MergeFields, m.Interests, m.Location, m.MarketingPermissions} {
		p, err := jsonParam(v)
		if err != nil {
			return fmt.Errorf("encode member: %w", err)
		}
		params[i] = p
	}

	var (
		err error
		id  = m.ID
	)
	if id == "" {
		id = uuid.New().String()
		_, err = r.db.ExecContext(ctx, `
			INSERT INTO mail_chimp_members (`+memberColumns+`, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW(), NOW())
		`, id, m.UniqueEmailID, m.MailChimpUniqueEmailID, m.ListID,
			m.EmailAddress, m.EmailType, string(m.Status), params[0], params[1], m.Language, m.VIP,
			params[2], params[3], m.IPSignup, m.TimestampSignup, m.IPOpt,
			m.TimestampOpt, pq.Array(m.Tags))
	} else {
		_, err = r.db.ExecContext(ctx, `
			UPDATE mail_chimp_members SET
				unique_email_id = $2, mail_chimp_unique_email_id = $3, list_id = $4,
				email_address = $5, email_type = $6, status = $7, merge_fields = $8,
				interests = $9, language = $10, vip = $11, location = $12,
				marketing_permissions = $13, ip_signup = $14, timestamp_signup = $15,
				ip_opt = $16, timestamp_opt = $17, tags = $18, updated_at = NOW()
			WHERE id = $1
		`, id, m.UniqueEmailID, m.MailChimpUniqueEmailID, m.ListID,
			m.EmailAddress, m.EmailType, string(m.Status), params[0], params[1], m.Language, m.VIP,
			params[2], params[3], m.IPSignup, m.TimestampSignup, m.IPOpt,
			m.TimestampOpt, pq.Array(m.Tags))
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("save member %s: %w", m.EmailAddress, domain.ErrDuplicateMember)
	}
	if err != nil {
		return fmt.Errorf("save member: %w", err)
	}
	m.ID = id
	return nil
}

// Remove deletes m.
func (r *MemberRepo) Remove(ctx context.Context, m *domain.Member) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM mail_chimp_members WHERE id = $1`, m.ID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}
	return nil
}

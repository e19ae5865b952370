package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/mailchimp-bridge/internal/domain"
	"github.com/ignite/mailchimp-bridge/internal/service/member"
)

const memberID = "0f1e2d3c-4b5a-6978-8a9b-acbdcedf0011"

var memberCols = []string{
	"id", "unique_email_id", "mail_chimp_unique_email_id", "list_id",
	"email_address", "email_type", "status", "merge_fields", "interests", "language", "vip",
	"location", "marketing_permissions", "ip_signup", "timestamp_signup", "ip_opt",
	"timestamp_opt", "tags",
}

func TestMemberRepo_FindOneBy(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMemberRepo(db)

	mock.ExpectQuery(`SELECT .+ FROM mail_chimp_members WHERE id = \$1 AND list_id = \$2`).
		WithArgs(memberID, listID).
		WillReturnRows(sqlmock.NewRows(memberCols).AddRow(
			memberID, nil, "882e9bec19", listID,
			"john.doe@example.com", "html", "subscribed",
			[]byte(`{"FNAME":"John"}`), nil, "en", true,
			[]byte(`{"latitude":40.7,"longitude":-73.9}`),
			[]byte(`[{"marketing_permission_id":"abc","enabled":true}]`),
			nil, nil, nil, nil, "{vip,newsletter}",
		))

	m, err := repo.FindOneBy(context.Background(), member.Criteria{MemberID: memberID, ListID: listID})
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, domain.MemberSubscribed, m.Status)
	assert.Nil(t, m.UniqueEmailID)
	require.NotNil(t, m.MailChimpUniqueEmailID)
	assert.Equal(t, "882e9bec19", *m.MailChimpUniqueEmailID)
	assert.Equal(t, "John", m.MergeFields["FNAME"])
	assert.Nil(t, m.Interests)
	require.NotNil(t, m.VIP)
	assert.True(t, *m.VIP)
	require.NotNil(t, m.Location)
	assert.InDelta(t, 40.7, *m.Location.Latitude, 0.0001)
	require.Len(t, m.MarketingPermissions, 1)
	assert.Equal(t, "abc", m.MarketingPermissions[0].MarketingPermissionID)
	assert.Equal(t, []string{"vip", "newsletter"}, m.Tags)
}

func TestMemberRepo_FindOneByMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMemberRepo(db)

	mock.ExpectQuery(`SELECT .+ FROM mail_chimp_members`).
		WithArgs(memberID, listID).
		WillReturnRows(sqlmock.NewRows(memberCols))

	m, err := repo.FindOneBy(context.Background(), member.Criteria{MemberID: memberID, ListID: listID})
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestMemberRepo_FindOneByNonUUID(t *testing.T) {
	db, _ := newMock(t)
	repo := NewMemberRepo(db)

	m, err := repo.FindOneBy(context.Background(), member.Criteria{MemberID: "nope", ListID: listID})
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestMemberRepo_SaveInsert(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMemberRepo(db)

	m := &domain.Member{
		ListID:       listID,
		EmailAddress: "john.doe@example.com",
		Status:       domain.MemberPending,
		MergeFields:  map[string]any{"FNAME": "John"},
		Tags:         []string{"vip"},
	}

	mock.ExpectExec(`INSERT INTO mail_chimp_members`).
		WithArgs(sqlmock.AnyArg(), nil, nil, listID,
			"john.doe@example.com", nil, "pending", `{"FNAME":"John"}`, nil, nil, nil,
			nil, nil, nil, nil, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), m))
	assert.NotEmpty(t, m.ID)
}

func TestMemberRepo_SaveUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMemberRepo(db)

	remote := "882e9bec19"
	m := &domain.Member{
		ID:                     memberID,
		ListID:                 listID,
		EmailAddress:           "john.doe@example.com",
		Status:                 domain.MemberUnsubscribed,
		MailChimpUniqueEmailID: &remote,
	}

	mock.ExpectExec(`UPDATE mail_chimp_members SET .+ WHERE id = \$1`).
		WithArgs(memberID, nil, "882e9bec19", listID,
			"john.doe@example.com", nil, "unsubscribed", nil, nil, nil, nil,
			nil, nil, nil, nil, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), m))
	assert.Equal(t, memberID, m.ID)
}

func TestMemberRepo_SaveDuplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMemberRepo(db)

	mock.ExpectExec(`INSERT INTO mail_chimp_members`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "email_address_list_id_unique"})

	m := &domain.Member{ListID: listID, EmailAddress: "john.doe@example.com", Status: domain.MemberSubscribed}
	err := repo.Save(context.Background(), m)
	assert.ErrorIs(t, err, domain.ErrDuplicateMember)
	assert.Empty(t, m.ID, "failed insert does not assign an id")
}

func TestMemberRepo_Remove(t *testing.T) {
	db, mock := newMock(t)
	repo := NewMemberRepo(db)

	mock.ExpectExec(`DELETE FROM mail_chimp_members WHERE id = \$1`).
		WithArgs(memberID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Remove(context.Background(), &domain.Member{ID: memberID}))
}

package domain

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
)

// MemberStatus enumerates the subscription states MailChimp accepts.
type MemberStatus string

const (
	MemberSubscribed   MemberStatus = "subscribed"
	MemberUnsubscribed MemberStatus = "unsubscribed"
	MemberCleaned      MemberStatus = "cleaned"
	MemberPending      MemberStatus = "pending"
)

// Location is a member's geolocation.
type Location struct {
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
}

// MarketingPermission is a GDPR permission toggle on a member.
type MarketingPermission struct {
	MarketingPermissionID string `json:"marketing_permission_id"`
	Enabled               *bool  `json:"enabled,omitempty"`
}

// Member is a subscriber record scoped to one List, mirrored locally and in
// MailChimp.
type Member struct {
	ID                     string                `json:"member_id"`
	UniqueEmailID          *string               `json:"unique_email_id"`
	MailChimpUniqueEmailID *string               `json:"mail_chimp_unique_email_id"`
	ListID                 string                `json:"list_id"`
	EmailAddress           string                `json:"email_address" validate:"required"`
	EmailType              *string               `json:"email_type"`
	Status                 MemberStatus          `json:"status" validate:"required,oneof=subscribed unsubscribed cleaned pending"`
	MergeFields            map[string]any        `json:"merge_fields"`
	Interests              map[string]any        `json:"interests"`
	Language               *string               `json:"language"`
	VIP                    *bool                 `json:"vip"`
	Location               *Location             `json:"location" validate:"omitempty"`
	MarketingPermissions   []MarketingPermission `json:"marketing_permissions" validate:"omitempty,dive"`
	IPSignup               *string               `json:"ip_signup"`
	TimestampSignup        *string               `json:"timestamp_signup"`
	IPOpt                  *string               `json:"ip_opt"`
	TimestampOpt           *string               `json:"timestamp_opt"`
	Tags                   []string              `json:"tags"`
}

// NewMember builds a member from a request payload. Type errors are returned
// alongside the partially filled member; call Validate for the full report.
func NewMember(p Payload) (*Member, FieldErrors) {
	m := &Member{}
	return m, m.Fill(p)
}

// SubscriberHash is the MD5 hex digest of the lowercased email address, the
// key MailChimp addresses list members by.
func (m *Member) SubscriberHash() string {
	return SubscriberHash(m.EmailAddress)
}

// SubscriberHash derives the MailChimp member key of an email address.
func SubscriberHash(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(email)))
	return hex.EncodeToString(sum[:])
}

// Fill overlays the keys present in p onto m. Absent keys keep their current
// value and explicit nulls clear nullable fields. Identifiers (member_id,
// list_id, the MailChimp ids) are never taken from a payload.
func (m *Member) Fill(p Payload) FieldErrors {
	errs := FieldErrors{}
	o := newOverlay(p, errs)

	o.str("email_address", &m.EmailAddress)
	o.nullableStr("email_type", &m.EmailType)

	status := string(m.Status)
	o.str("status", &status)
	m.Status = MemberStatus(status)

	o.object("merge_fields", &m.MergeFields)
	o.object("interests", &m.Interests)
	o.nullableStr("language", &m.Language)
	o.boolean("vip", &m.VIP)

	if sub, present := o.sub("location"); present {
		if sub == nil {
			m.Location = nil
		} else {
			loc := &Location{}
			lo := o.nested("location", sub)
			lo.number("latitude", &loc.Latitude)
			lo.number("longitude", &loc.Longitude)
			m.Location = loc
		}
	}

	if items, present := o.items("marketing_permissions"); present {
		m.MarketingPermissions = fillPermissions(o, items)
	}

	o.nullableStr("ip_signup", &m.IPSignup)
	o.nullableStr("timestamp_signup", &m.TimestampSignup)
	o.nullableStr("ip_opt", &m.IPOpt)
	o.nullableStr("timestamp_opt", &m.TimestampOpt)
	o.strings("tags", &m.Tags)

	return errs
}

func fillPermissions(o *overlay, items []json.RawMessage) []MarketingPermission {
	if items == nil {
		return nil
	}
	perms := make([]MarketingPermission, 0, len(items))
	for i, raw := range items {
		key := fmt.Sprintf("marketing_permissions.%d", i)
		var sub Payload
		if isNull(raw) || json.Unmarshal(raw, &sub) != nil {
			o.fail(key, "The %s must be an object.")
			continue
		}
		var perm MarketingPermission
		po := o.nested(key, sub)
		po.str("marketing_permission_id", &perm.MarketingPermissionID)
		po.boolean("enabled", &perm.Enabled)
		perms = append(perms, perm)
	}
	return perms
}

// Validate checks m against the member rule set. typeErrs are the messages
// returned by Fill; they are merged into the result.
func (m *Member) Validate(typeErrs FieldErrors) FieldErrors {
	errs := FieldErrors{}
	errs.Merge(typeErrs)
	errs.Merge(checkRules(m, typeErrs))
	return errs
}

// ToMap is the full shape returned over HTTP.
func (m *Member) ToMap() map[string]any {
	return map[string]any{
		"member_id":                  m.ID,
		"unique_email_id":            m.UniqueEmailID,
		"mail_chimp_unique_email_id": m.MailChimpUniqueEmailID,
		"list_id":                    m.ListID,
		"email_address":              m.EmailAddress,
		"email_type":                 m.EmailType,
		"status":                     m.Status,
		"merge_fields":               m.MergeFields,
		"interests":                  m.Interests,
		"language":                   m.Language,
		"vip":                        m.VIP,
		"location":                   m.Location,
		"marketing_permissions":      m.MarketingPermissions,
		"ip_signup":                  m.IPSignup,
		"timestamp_signup":           m.TimestampSignup,
		"ip_opt":                     m.IPOpt,
		"timestamp_opt":              m.TimestampOpt,
		"tags":                       m.Tags,
	}
}

// ToMailChimpMap is the shape sent to MailChimp: the validated keys only, with
// unset values left out.
func (m *Member) ToMailChimpMap() map[string]any {
	out := map[string]any{
		"email_address": m.EmailAddress,
		"status":        m.Status,
	}
	putString(out, "email_type", m.EmailType)
	if m.MergeFields != nil {
		out["merge_fields"] = m.MergeFields
	}
	if m.Interests != nil {
		out["interests"] = m.Interests
	}
	putString(out, "language", m.Language)
	if m.VIP != nil {
		out["vip"] = *m.VIP
	}
	if m.Location != nil {
		out["location"] = m.Location
	}
	if m.MarketingPermissions != nil {
		out["marketing_permissions"] = m.MarketingPermissions
	}
	putString(out, "ip_signup", m.IPSignup)
	putString(out, "timestamp_signup", m.TimestampSignup)
	putString(out, "ip_opt", m.IPOpt)
	putString(out, "timestamp_opt", m.TimestampOpt)
	if m.Tags != nil {
		out["tags"] = m.Tags
	}
	return out
}

func putString(out map[string]any, key string, v *string) {
	if v != nil {
		out[key] = *v
	}
}

package domain

// CampaignDefaults are the sender defaults MailChimp applies to campaigns sent
// to a list.
type CampaignDefaults struct {
	FromName  string `json:"from_name" validate:"required"`
	FromEmail string `json:"from_email" validate:"required,email"`
	Subject   string `json:"subject" validate:"required"`
	Language  string `json:"language" validate:"required"`
}

// Contact is the postal contact MailChimp prints in list footers.
type Contact struct {
	Company  string `json:"company" validate:"required"`
	Address1 string `json:"address1" validate:"required"`
	Address2 string `json:"address2,omitempty"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Zip      string `json:"zip" validate:"required"`
	Country  string `json:"country" validate:"required"`
	Phone    string `json:"phone,omitempty"`
}

// List is a named mailing list, mirrored locally and in MailChimp.
type List struct {
	ID                  string            `json:"list_id"`
	MailChimpID         *string           `json:"mail_chimp_id"`
	Name                string            `json:"name" validate:"required"`
	PermissionReminder  string            `json:"permission_reminder" validate:"required"`
	UseArchiveBar       *bool             `json:"use_archive_bar"`
	CampaignDefaults    *CampaignDefaults `json:"campaign_defaults" validate:"required"`
	NotifyOnSubscribe   *string           `json:"notify_on_subscribe" validate:"omitempty,email"`
	NotifyOnUnsubscribe *string           `json:"notify_on_unsubscribe" validate:"omitempty,email"`
	EmailTypeOption     *bool             `json:"email_type_option" validate:"required"`
	Visibility          *string           `json:"visibility" validate:"omitempty,oneof=pub prv"`
	Contact             *Contact          `json:"contact" validate:"required"`
}

// NewList builds a list from a request payload.
func NewList(p Payload) (*List, FieldErrors) {
	l := &List{}
	return l, l.Fill(p)
}

// Fill overlays the keys present in p onto l. Nested objects are replaced as a
// whole.
func (l *List) Fill(p Payload) FieldErrors {
	errs := FieldErrors{}
	o := newOverlay(p, errs)

	o.str("name", &l.Name)
	o.str("permission_reminder", &l.PermissionReminder)
	o.boolean("use_archive_bar", &l.UseArchiveBar)

	if sub, present := o.sub("campaign_defaults"); present {
		l.CampaignDefaults = nil
		if sub != nil {
			cd := &CampaignDefaults{}
			co := o.nested("campaign_defaults", sub)
			co.str("from_name", &cd.FromName)
			co.str("from_email", &cd.FromEmail)
			co.str("subject", &cd.Subject)
			co.str("language", &cd.Language)
			l.CampaignDefaults = cd
		}
	}

	o.nullableStr("notify_on_subscribe", &l.NotifyOnSubscribe)
	o.nullableStr("notify_on_unsubscribe", &l.NotifyOnUnsubscribe)
	o.boolean("email_type_option", &l.EmailTypeOption)
	o.nullableStr("visibility", &l.Visibility)

	if sub, present := o.sub("contact"); present {
		l.Contact = nil
		if sub != nil {
			c := &Contact{}
			co := o.nested("contact", sub)
			co.str("company", &c.Company)
			co.str("address1", &c.Address1)
			co.str("address2", &c.Address2)
			co.str("city", &c.City)
			co.str("state", &c.State)
			co.str("zip", &c.Zip)
			co.str("country", &c.Country)
			co.str("phone", &c.Phone)
			l.Contact = c
		}
	}

	return errs
}

// Validate checks l against the list rule set, merging the type errors
// returned by Fill.
func (l *List) Validate(typeErrs FieldErrors) FieldErrors {
	errs := FieldErrors{}
	errs.Merge(typeErrs)
	errs.Merge(checkRules(l, typeErrs))
	return errs
}

// ToMap is the full shape returned over HTTP.
func (l *List) ToMap() map[string]any {
	return map[string]any{
		"list_id":               l.ID,
		"mail_chimp_id":         l.MailChimpID,
		"name":                  l.Name,
		"permission_reminder":   l.PermissionReminder,
		"use_archive_bar":       l.UseArchiveBar,
		"campaign_defaults":     l.CampaignDefaults,
		"notify_on_subscribe":   l.NotifyOnSubscribe,
		"notify_on_unsubscribe": l.NotifyOnUnsubscribe,
		"email_type_option":     l.EmailTypeOption,
		"visibility":            l.Visibility,
		"contact":               l.Contact,
	}
}

// ToMailChimpMap is the shape sent to MailChimp.
func (l *List) ToMailChimpMap() map[string]any {
	out := map[string]any{
		"name":                l.Name,
		"permission_reminder": l.PermissionReminder,
		"campaign_defaults":   l.CampaignDefaults,
		"contact":             l.Contact,
	}
	if l.UseArchiveBar != nil {
		out["use_archive_bar"] = *l.UseArchiveBar
	}
	putString(out, "notify_on_subscribe", l.NotifyOnSubscribe)
	putString(out, "notify_on_unsubscribe", l.NotifyOnUnsubscribe)
	if l.EmailTypeOption != nil {
		out["email_type_option"] = *l.EmailTypeOption
	}
	putString(out, "visibility", l.Visibility)
	return out
}

// MailChimpIDOrEmpty returns the MailChimp list id, or "" before the list has
// been created remotely.
func (l *List) MailChimpIDOrEmpty() string {
	if l.MailChimpID == nil {
		return ""
	}
	return *l.MailChimpID
}

// Package list implements mailing list management: local CRUD mirrored to
// MailChimp with one call per mutation.
package list

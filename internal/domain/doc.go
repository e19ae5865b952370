// Package domain defines the entities mirrored between the local store and
// MailChimp: mailing lists and their members.
//
// Types in this package hold data and the rules that apply to it (payload
// overlay, validation, the two map shapes). They carry no database handles and
// no HTTP concerns; handlers, services and repositories all speak in these
// types.
//
// Rules for this package:
//   - No imports from other internal/ packages
//   - No *sql.DB, no http.Request, no context.Context in struct fields
//   - Map conversions use explicit, statically declared key lists
package domain

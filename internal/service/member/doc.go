// Package member implements list member management.
//
// Every mutation follows the same order: confirm the parent list exists,
// overlay and validate the payload, save locally, then make one call to
// MailChimp. A failed MailChimp call is reported to the caller but the local
// write stays; such members keep a null mail_chimp_unique_email_id.
//
// The service layer depends on the Repository and ListFinder interfaces
// defined in repository.go. It never imports net/http or database/sql.
package member

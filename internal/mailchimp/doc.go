// Package mailchimp is a small client for the MailChimp Marketing API v3.0.
//
// Calls take a path relative to the API root and an optional JSON body and
// return the decoded response object. Non-2xx answers come back as *APIError.
package mailchimp

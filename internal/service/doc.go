// Package service holds the contracts shared by the list and member
// services: the outbound MailChimp surface, the mutation lock and the error
// types the HTTP layer maps to status codes.
package service

package logger

import "strings"

// RedactEmail masks the local part of an address:
// "john.doe@example.com" -> "jo***@example.com", "ab@example.com" -> "***@example.com".
// Anything that is not a single local@domain pair becomes "***@***".
func RedactEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || strings.Contains(domain, "@") {
		return "***@***"
	}
	if len(local) > 2 {
		return local[:2] + "***@" + domain
	}
	return "***@" + domain
}

package sanitizer

import (
	"regexp"
	"strings"
)

var (
	dotRegex   = regexp.MustCompile(`\.{2,}`)
	spaceRegex = regexp.MustCompile(`\s+`)
)

// NormalizeEmail lowercases and trims an email address so case-insensitive
// uniqueness can be enforced by exact match. Consecutive dots in the local
// part are consolidated; invalid shapes are returned as-is for the validator
// to reject.
func NormalizeEmail(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))

	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}

	local := dotRegex.ReplaceAllString(parts[0], ".")
	local = strings.Trim(local, ".")

	return local + "@" + parts[1]
}

// NormalizeUsername lowercases and trims a username. Usernames are stored
// lowercased so uniqueness checks and lookups are case-insensitive.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// NormalizePhone strips everything but digits and a leading plus sign.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		if r >= '0' && r <= '9' || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// TrimText collapses internal whitespace runs and trims the ends. Used for
// free-form profile fields before persistence.
func TrimText(s string) string {
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}

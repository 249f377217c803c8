package helpers

import "regexp"

// e164Pattern: leading '+', a non-zero first digit, 2-15 digits total.
var e164Pattern = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// IsE164 reports whether phone is a valid E.164 number.
func IsE164(phone string) bool {
	return e164Pattern.MatchString(phone)
}

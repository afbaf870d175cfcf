// Package phone validates caller-supplied phone numbers.
package phone

import "regexp"

// e164 matches the international E.164 format: a leading +, a 1-9 first
// digit, then 1 to 14 further digits (2 to 15 digits total).
var e164 = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// RequiredFormat is the operator-facing description used in rejections.
const RequiredFormat = "E.164 format required, e.g. +15551234567"

// Valid reports whether s is a well-formed E.164 number.
// It never rejects by error; any malformed input is simply invalid.
func Valid(s string) bool {
	return e164.MatchString(s)
}

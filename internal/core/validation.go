package core

// validation.go provides the two record filters run after import.
//
// Filtering happens in a fixed order:
//  1. FilterEmails drops records whose email is not shaped like local@sub.tld
//  2. NormalizePhones rewrites every surviving phone to its 9-character form
//
// Neither filter reports errors: a record that fails a check is simply left
// out of the returned collection.

import (
	"strings"
	"unicode"
)

// PhoneLength is the length of a canonical phone number.
const PhoneLength = 9

// maxTLDLength bounds the top-level label of an accepted email domain.
const maxTLDLength = 4

// ValidEmail reports whether s has exactly one '@' and exactly one '.',
// a non-empty local part, a non-empty subdomain, and a top-level label of
// 1-4 letters or digits.
func ValidEmail(s string) bool {
	if strings.Count(s, "@") != 1 || strings.Count(s, ".") != 1 {
		return false
	}

	local, domain, _ := strings.Cut(s, "@")
	if local == "" {
		return false
	}

	sub, tld, ok := strings.Cut(domain, ".")
	if !ok || sub == "" {
		return false
	}

	n := 0
	for _, r := range tld {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
		n++
	}
	return n >= 1 && n <= maxTLDLength
}

// FilterEmails returns the records whose email passes ValidEmail.
// Records are not modified.
func FilterEmails(records []*UserRecord) []*UserRecord {
	out := make([]*UserRecord, 0, len(records))
	for _, r := range records {
		if ValidEmail(r.Email) {
			out = append(out, r)
		}
	}
	return out
}

// NormalizePhone returns the canonical form of a phone value.
//
// A value of exactly nine digits is returned unchanged. Anything else has its
// whitespace removed and is cut to its last nine characters; the result is not
// checked further, so it may be shorter than nine or contain non-digits.
func NormalizePhone(s string) string {
	if isCanonicalPhone(s) {
		return s
	}

	stripped := []rune(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))

	if len(stripped) > PhoneLength {
		stripped = stripped[len(stripped)-PhoneLength:]
	}
	return string(stripped)
}

func isCanonicalPhone(s string) bool {
	n := 0
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
		n++
	}
	return n == PhoneLength
}

// NormalizePhones returns the records that carry a phone field, rewriting each
// survivor's Phone in place to its NormalizePhone form. Records whose source
// had no phone field at all are dropped.
func NormalizePhones(records []*UserRecord) []*UserRecord {
	out := make([]*UserRecord, 0, len(records))
	for _, r := range records {
		if r.PhoneMissing {
			continue
		}
		r.Phone = NormalizePhone(r.Phone)
		out = append(out, r)
	}
	return out
}

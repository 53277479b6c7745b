package utils

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone formats raw as E.164 when it parses as a valid number for
// region. Anything else is returned trimmed but otherwise untouched.
func NormalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	num, err := phonenumbers.Parse(raw, strings.ToUpper(region))
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return raw
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

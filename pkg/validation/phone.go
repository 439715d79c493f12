package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shlapabank/dashboard-go/internal"
)

var canonicalPhone = regexp.MustCompile(`^\+7\d{10}$`)

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhone converts any common spelling of a Russian mobile number to
// +7XXXXXXXXXX. The second result is false when no canonical form exists.
func NormalizePhone(raw string) (string, bool) {
	digits := digitsOnly(raw)

	switch {
	case len(digits) == internal.PhoneDigits+1 && (digits[0] == '7' || digits[0] == '8'):
		digits = digits[1:]
	case len(digits) == internal.PhoneDigits:
	default:
		return "", false
	}

	phone := internal.PhoneCountryPrefix + digits
	return phone, canonicalPhone.MatchString(phone)
}

// FormatPhone renders a canonical number as +7 (XXX) XXX-XX-XX. Non-canonical
// input is returned unchanged.
func FormatPhone(phone string) string {
	if !canonicalPhone.MatchString(phone) {
		return phone
	}
	d := phone[2:]
	return fmt.Sprintf("+7 (%s) %s-%s-%s", d[0:3], d[3:6], d[6:8], d[8:10])
}

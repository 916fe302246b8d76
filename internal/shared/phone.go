package shared

import (
	"strings"
	"unicode"
)

// FormatPhoneNumber formats US phone numbers for display.
//
// 10 digits become (XXX) XXX-XXXX and 11 digits with a leading 1 become +1 (XXX) XXX-XXXX.
// Anything else is returned unchanged.
func FormatPhoneNumber(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	switch {
	case len(digits) == 10:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
	case len(digits) == 11 && digits[0] == '1':
		return "+1 (" + digits[1:4] + ") " + digits[4:7] + "-" + digits[7:]
	default:
		return phone
	}
}

// FormatFieldValue formats a field value for display based on its field type.
func FormatFieldValue(value, fieldType string) string {
	switch fieldType {
	case "phone":
		return FormatPhoneNumber(value)
	case "email":
		return strings.ToLower(value)
	default:
		return value
	}
}

// IsBlank reports whether s is empty or whitespace only.
func IsBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}

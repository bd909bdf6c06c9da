package chat

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+[0-9]{10,15}$`)

func digitsOf(s string) string {
	var sb strings.Builder
	for _, ch := range s {
		if ch >= '0' && ch <= '9' {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// NormalizePhone strips non-digit characters and prepends "+".
func NormalizePhone(phone string) string {
	digits := digitsOf(phone)
	if digits == "" {
		return ""
	}
	return "+" + digits
}

// IsValidPhone checks if the input looks like a valid phone number (10-15 digits).
// Separators such as spaces, dashes and brackets are tolerated; letters are not.
func IsValidPhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	if phone == "" || strings.ContainsFunc(phone, isLetter) {
		return false
	}
	return phonePattern.MatchString(NormalizePhone(phone))
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

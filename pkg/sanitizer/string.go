package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else if unicode.IsControl(r) {
			continue
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

// NormalizePhone strips formatting characters and keeps a single leading '+'.
// Anything that is not a digit after that is dropped, so "+380 (44) 123-45-67"
// becomes "+380441234567". Numbers without a leading '+' are returned digits only.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	var result strings.Builder
	if strings.HasPrefix(phone, "+") {
		result.WriteByte('+')
	}
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			result.WriteRune(r)
		}
	}

	if result.Len() == 0 || result.String() == "+" {
		return ""
	}
	return result.String()
}

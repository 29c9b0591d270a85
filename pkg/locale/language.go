package locale

import (
	"strings"
)

type Language string

const (
	English   Language = "en"
	Ukrainian Language = "uk"
	Russian   Language = "ru"

	DefaultLanguage = English
)

var SupportedLanguages = []Language{English, Ukrainian, Russian}

func IsSupported(lang string) bool {
	for _, l := range SupportedLanguages {
		if string(l) == lang {
			return true
		}
	}
	return false
}

// ResolveLanguage picks the UI language for a request.
//
// An explicit preference wins when it is exactly one of the supported codes.
// Otherwise the header values are joined with commas and searched, case
// insensitively, for "uk" and then "ru" as plain substrings; anything else
// resolves to English. The substring search is deliberately loose: a tag such
// as "trunk" also matches "ru".
func ResolveLanguage(preferred string, header ...string) Language {
	if preferred != "" && IsSupported(preferred) {
		return Language(preferred)
	}

	joined := strings.ToLower(strings.Join(header, ","))

	switch {
	case strings.Contains(joined, string(Ukrainian)):
		return Ukrainian
	case strings.Contains(joined, string(Russian)):
		return Russian
	default:
		return DefaultLanguage
	}
}

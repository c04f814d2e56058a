package internal

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

// IsIdentifierRune reports whether r may appear in an identifier.
// Only ASCII letters and digits are allowed.
func IsIdentifierRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// IsIdentifier reports whether s is a non-empty run of identifier runes.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsIdentifierRune(r) {
			return false
		}
	}
	return true
}

// IsLocale reports whether s is a syntactically valid Unicode locale identifier.
// Subtags may be separated by '-' or '_'. Well-formed tags with subtags that
// are unknown to the CLDR registry are still accepted: only syntax is checked.
func IsLocale(s string) bool {
	_, err := ParseLocale(s)
	return err == nil
}

// ParseLocale parses s into a language tag, accepting '_' as separator.
func ParseLocale(s string) (language.Tag, error) {
	if s == "" || strings.ContainsAny(s, " \t\r\n") {
		return language.Und, errors.New(ErrMsgInvalidLocale)
	}
	normalized := strings.ReplaceAll(s, string(CharLocaleAltSep), string(CharLocaleSubSep))
	tag, err := language.Parse(normalized)
	if err == nil {
		return tag, nil
	}
	var valueErr language.ValueError
	if errors.As(err, &valueErr) {
		// Syntactically fine, semantically unknown subtag.
		return tag, nil
	}
	return language.Und, err
}

package http

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Input validation constants
const (
	MaxNameLength    = 128
	MaxMessageLength = 4096
)

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9]{6,15}$`)
)

// ValidEmail is a sanity check, not RFC enforcement; the backend has the
// final word.
func ValidEmail(s string) bool {
	return len(s) <= 254 && emailRe.MatchString(s)
}

// ValidPhone accepts digits with an optional leading +, no country-code
// requirement (the bot service normalizes it).
func ValidPhone(s string) bool {
	return phoneRe.MatchString(s)
}

// ValidURL requires an absolute http(s) URL.
func ValidURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// SanitizeString removes null bytes and invalid UTF-8
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")

	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for _, r := range s {
			if r != utf8.RuneError {
				v = append(v, r)
			}
		}
		s = string(v)
	}
	return s
}

// ValidateLength checks if string is within bounds
func ValidateLength(s string, min, max int) bool {
	l := len(s)
	return l >= min && l <= max
}

package session

import (
	"strings"
	"unicode/utf8"

	"github.com/prospira/edi-portal/internal/core/domain"
)

// Initials derives the avatar label of u: the first character of the display
// name, else of the username, else "U". The result is upper-cased.
func Initials(u *domain.User) string {
	if u == nil {
		return fallbackInitial
	}
	if r := firstRune(u.DisplayName); r != "" {
		return r
	}
	if r := firstRune(u.Username); r != "" {
		return r
	}
	return fallbackInitial
}

func firstRune(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return strings.ToUpper(string(r))
}

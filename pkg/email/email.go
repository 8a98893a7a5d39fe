// Package email normalizes account email addresses.
package email

import (
	"net/mail"
	"strings"
)

// Normalize trims the address and lowercases its domain. The local part is
// kept as entered; two addresses differing only in domain case are equal.
func Normalize(addr string) string {
	addr = strings.TrimSpace(addr)
	at := strings.LastIndexByte(addr, '@')
	if at < 0 {
		return addr
	}
	return addr[:at] + "@" + strings.ToLower(addr[at+1:])
}

// Valid reports whether addr is a bare RFC 5322 address with a domain part.
func Valid(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	if err != nil || parsed.Address != addr {
		return false
	}
	at := strings.LastIndexByte(addr, '@')
	return at > 0 && at < len(addr)-1
}

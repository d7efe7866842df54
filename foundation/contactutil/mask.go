package contactutil

import "strings"

// MaskEmail hides the local part of an address for logs, keeping its first
// and last rune: "sara@audi.de" -> "s**a@audi.de". Values without a usable
// '@' are masked as a whole.
func MaskEmail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	at := strings.LastIndexByte(s, '@')
	if at <= 0 {
		return maskRunes(s)
	}
	return maskRunes(s[:at]) + s[at:]
}

func maskRunes(s string) string {
	r := []rune(s)
	switch len(r) {
	case 0, 1:
		return s
	case 2:
		return string(r[0]) + "*"
	}
	return string(r[0]) + strings.Repeat("*", len(r)-2) + string(r[len(r)-1])
}

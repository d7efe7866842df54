package contactutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Case selects how a contact value is re-cased.
type Case string

const (
	CaseLower Case = "lower"
	CaseUpper Case = "upper"
	CaseTitle Case = "title"
	CaseKeep  Case = "keep"
)

func (c Case) Valid() bool {
	switch c {
	case CaseLower, CaseUpper, CaseTitle, CaseKeep:
		return true
	}
	return false
}

// ParseCase accepts a case name in any letter case; "" means CaseLower.
func ParseCase(s string) (Case, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CaseLower, true
	}
	c := Case(s)
	return c, c.Valid()
}

// ApplyCase re-cases s. Unknown modes leave s untouched.
func ApplyCase(s string, c Case) string {
	switch c {
	case CaseLower:
		return strings.ToLower(s)
	case CaseUpper:
		return strings.ToUpper(s)
	case CaseTitle:
		return cases.Title(language.Und).String(s)
	default:
		return s
	}
}

// NormalizeEmail lowercases and trims an e-mail. It does not validate the shape.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeHeader turns "Contact Email" or "contact-email" into "contact_email".
func NormalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

var nullTokens = map[string]struct{}{
	"null": {},
	"nil":  {},
	"none": {},
	"nan":  {},
	"n/a":  {},
}

// IsNullToken reports whether a text cell spells out a missing value.
func IsNullToken(s string) bool {
	_, ok := nullTokens[strings.ToLower(strings.TrimSpace(s))]
	return ok
}

package errors

import (
	"errors"
	"fmt"
)

// InvariantKind classifies a broken invariant.
type InvariantKind string

const (
	KindDomain InvariantKind = "domain"
	KindConfig InvariantKind = "config"
)

// InvariantError is returned for malformed input records and invalid settings.
type InvariantError struct {
	Kind   InvariantKind
	Base   error
	Field  string
	Reason string
}

func (e InvariantError) Error() string {
	switch e.Kind {
	case KindConfig:
		switch {
		case e.Field == "" && e.Reason == "":
			return "config: invalid"
		case e.Field == "":
			return fmt.Sprintf("config: %s", e.Reason)
		default:
			return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
		}
	default:
		if e.Field == "" {
			return e.Reason
		}
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
}

func (e InvariantError) Unwrap() error {
	return e.Base
}

// DomainInvariant reports a field-level problem, e.g. "records[3].contact: not_text".
func DomainInvariant(field, reason string) error {
	return InvariantError{Kind: KindDomain, Field: field, Reason: reason}
}

// ConfigInvariant reports an unusable setting. base may be a package sentinel.
func ConfigInvariant(base error, field, reason string) error {
	return InvariantError{Kind: KindConfig, Base: base, Field: field, Reason: reason}
}

func IsInvariant(err error) bool {
	var ie InvariantError
	return errors.As(err, &ie)
}

// FieldOf returns the field of the first InvariantError in err's chain.
func FieldOf(err error) (string, bool) {
	var ie InvariantError
	if !errors.As(err, &ie) {
		return "", false
	}
	return ie.Field, true
}

package contact

import (
	"errors"
	"strings"

	"github.com/vortex-fintech/contactnorm/foundation/contactutil"
	ferrors "github.com/vortex-fintech/contactnorm/foundation/errors"
)

// MissingStrategy decides what happens to records without a contact.
type MissingStrategy string

const (
	MissingDrop MissingStrategy = "drop"
	MissingFill MissingStrategy = "fill"
)

var ErrInvalidPolicy = errors.New("invalid policy")

type Policy struct {
	Case      contactutil.Case
	TrimSpace bool

	Missing   MissingStrategy
	FillValue string

	DropEmpty      bool
	DropDuplicates bool

	// ValidateEmail reports malformed values as violations. They stay in the
	// output unless DropInvalid is set as well.
	ValidateEmail bool
	DropInvalid   bool
}

// DefaultPolicy matches Normalize: drop absent contacts, lowercase the rest.
func DefaultPolicy() Policy {
	return Policy{
		Case:    contactutil.CaseLower,
		Missing: MissingDrop,
	}
}

func (p Policy) Validate() error {
	if !p.Case.Valid() {
		return ferrors.ConfigInvariant(ErrInvalidPolicy, "case", "unknown_mode")
	}
	switch p.Missing {
	case MissingDrop, MissingFill:
	default:
		return ferrors.ConfigInvariant(ErrInvalidPolicy, "missing", "unknown_strategy")
	}
	if p.DropInvalid && !p.ValidateEmail {
		return ferrors.ConfigInvariant(ErrInvalidPolicy, "drop_invalid", "requires_validate_email")
	}
	return nil
}

// ParseMissing accepts "", "drop" or "fill" in any letter case.
func ParseMissing(s string) (MissingStrategy, bool) {
	switch m := MissingStrategy(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return MissingDrop, true
	case MissingDrop, MissingFill:
		return m, true
	default:
		return m, false
	}
}

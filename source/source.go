// Package source reads contact records from files and databases.
package source

import (
	"context"
	"errors"

	"github.com/vortex-fintech/contactnorm/contact"
	"github.com/vortex-fintech/contactnorm/data/postgres"
)

type Source interface {
	Name() string
	Load(ctx context.Context) ([]contact.Record, error)
}

var (
	ErrMalformedInput = errors.New("malformed input")
	ErrMissingColumn  = errors.New("missing column")
)

var _ Source = (*postgres.ContactSource)(nil)

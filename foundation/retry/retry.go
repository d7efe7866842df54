package retry

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy bounds the exponential backoff used when dialing Postgres or Redis.
type Policy struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsed      time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		MaxElapsed:      20 * time.Second,
	}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.InitialInterval <= 0 {
		p.InitialInterval = d.InitialInterval
	}
	if p.MaxInterval <= 0 {
		p.MaxInterval = d.MaxInterval
	}
	if p.MaxElapsed <= 0 {
		p.MaxElapsed = d.MaxElapsed
	}
	return p
}

// PermanentError wraps a non-retryable error.
type PermanentError struct {
	err error
}

func (e PermanentError) Error() string {
	if e.err == nil {
		return "permanent error"
	}
	return e.err.Error()
}

func (e PermanentError) Unwrap() error { return e.err }

// Permanent marks an error as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	if IsPermanent(err) {
		return err
	}
	return PermanentError{err: err}
}

// IsPermanent reports whether err is marked as non-retryable.
func IsPermanent(err error) bool {
	var pe PermanentError
	if errors.As(err, &pe) {
		return true
	}

	var bpe *backoff.PermanentError
	return errors.As(err, &bpe)
}

// Do retries fn with exponential backoff until it succeeds, returns a permanent
// error, ctx is done, or p.MaxElapsed passes.
func Do(ctx context.Context, p Policy, fn func(ctx context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p = p.withDefaults()

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.InitialInterval
	exp.Multiplier = 2.0
	exp.MaxInterval = p.MaxInterval
	exp.RandomizationFactor = 0.5
	exp.Reset()

	type unit struct{}
	op := func() (unit, error) {
		if err := ctx.Err(); err != nil {
			return unit{}, backoff.Permanent(err)
		}

		err := fn(ctx)
		if IsPermanent(err) {
			var bpe *backoff.PermanentError
			if errors.As(err, &bpe) {
				return unit{}, err
			}
			return unit{}, backoff.Permanent(err)
		}
		return unit{}, err
	}

	_, err := backoff.Retry(
		ctx,
		op,
		backoff.WithBackOff(exp),
		backoff.WithMaxElapsedTime(p.MaxElapsed),
	)
	return err
}

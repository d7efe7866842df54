package contact

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vortex-fintech/contactnorm/foundation/contactutil"
	"github.com/vortex-fintech/contactnorm/foundation/logger"
	"github.com/vortex-fintech/contactnorm/foundation/validator"
)

const ctxCheckEvery = 1024

// Stats counts what happened to each input record during a run.
type Stats struct {
	Input      int
	Missing    int
	Filled     int
	Empty      int
	Duplicates int
	Invalid    int
	Output     int
}

// Violation describes a value that failed e-mail validation.
type Violation struct {
	Index  int
	Name   string
	Value  string
	Reason string
}

type Result struct {
	Emails     []string
	Stats      Stats
	Violations []Violation
}

// Observer receives run statistics, e.g. a Prometheus collector.
type Observer interface {
	ObserveRun(stats Stats, elapsed time.Duration)
}

type Option func(*Normalizer)

func WithLogger(l logger.LoggerInterface) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(n *Normalizer) { n.obs = o }
}

func withClock(now func() time.Time) Option {
	return func(n *Normalizer) { n.now = now }
}

// Normalizer applies a Policy to batches of records. It holds no per-run
// state and may be shared between goroutines.
type Normalizer struct {
	policy Policy
	log    logger.LoggerInterface
	obs    Observer
	now    func() time.Time
}

func New(p Policy, opts ...Option) (*Normalizer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := &Normalizer{
		policy: p,
		log:    logger.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

func (n *Normalizer) Policy() Policy {
	return n.policy
}

// Run processes records in order. It only fails when ctx is done.
func (n *Normalizer) Run(ctx context.Context, records []Record) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := n.now()

	p := n.policy
	res := Result{
		Emails: make([]string, 0, len(records)),
		Stats:  Stats{Input: len(records)},
	}

	var seen map[string]struct{}
	if p.DropDuplicates {
		seen = make(map[string]struct{}, len(records))
	}

	for i, r := range records {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("normalize: stopped at record %d: %w", i, err)
			}
		}

		var v string
		if r.Contact == nil {
			if p.Missing != MissingFill {
				res.Stats.Missing++
				continue
			}
			res.Stats.Filled++
			v = p.FillValue
		} else {
			v = *r.Contact
		}

		if p.TrimSpace {
			v = strings.TrimSpace(v)
		}
		v = contactutil.ApplyCase(v, p.Case)

		if v == "" {
			res.Stats.Empty++
			if p.DropEmpty {
				continue
			}
		}

		if p.ValidateEmail {
			if code := validator.ValidateEmail(v); code != "" {
				res.Stats.Invalid++
				res.Violations = append(res.Violations, Violation{
					Index:  i,
					Name:   r.Name,
					Value:  v,
					Reason: code,
				})
				n.log.DebugwCtx(ctx, "invalid contact", "index", i, "value", contactutil.MaskEmail(v), "reason", code)
				if p.DropInvalid {
					continue
				}
			}
		}

		if seen != nil {
			if _, dup := seen[v]; dup {
				res.Stats.Duplicates++
				continue
			}
			seen[v] = struct{}{}
		}

		res.Emails = append(res.Emails, v)
	}

	res.Stats.Output = len(res.Emails)
	elapsed := n.now().Sub(start)

	n.log.InfowCtx(ctx, "contacts normalized",
		"input", res.Stats.Input,
		"output", res.Stats.Output,
		"missing", res.Stats.Missing,
		"filled", res.Stats.Filled,
		"empty", res.Stats.Empty,
		"duplicates", res.Stats.Duplicates,
		"invalid", res.Stats.Invalid,
		"elapsed", elapsed,
	)
	if n.obs != nil {
		n.obs.ObserveRun(res.Stats, elapsed)
	}

	return res, nil
}

package contact

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vortex-fintech/contactnorm/foundation/contactutil"
	ferrors "github.com/vortex-fintech/contactnorm/foundation/errors"
	"github.com/vortex-fintech/contactnorm/foundation/logger"
)

type recordingObserver struct {
	calls   int
	stats   Stats
	elapsed time.Duration
}

func (o *recordingObserver) ObserveRun(s Stats, elapsed time.Duration) {
	o.calls++
	o.stats = s
	o.elapsed = elapsed
}

func mustNew(t *testing.T, p Policy, opts ...Option) *Normalizer {
	t.Helper()
	n, err := New(p, opts...)
	require.NoError(t, err)
	return n
}

func TestNormalizer_DefaultPolicyMatchesNormalize(t *testing.T) {
	n := mustNew(t, DefaultPolicy())

	res, err := n.Run(context.Background(), sampleRecords())
	require.NoError(t, err)
	require.Equal(t, Normalize(sampleRecords()), res.Emails)
	require.Equal(t, Stats{Input: 3, Missing: 1, Output: 2}, res.Stats)
	require.Empty(t, res.Violations)
}

func TestNormalizer_Policies(t *testing.T) {
	in := []Record{
		{Name: "John", Contact: Text(" JOHN@bba.com ")},
		{Name: "Mike"},
		{Name: "Sara", Contact: Text("Sara@Audi.de")},
		{Name: "Dup", Contact: Text("john@BBA.com")},
		{Name: "Blank", Contact: Text("   ")},
	}

	tests := []struct {
		name      string
		policy    Policy
		want      []string
		wantStats Stats
	}{
		{
			name:      "trim",
			policy:    Policy{Case: contactutil.CaseLower, Missing: MissingDrop, TrimSpace: true},
			want:      []string{"john@bba.com", "sara@audi.de", "john@bba.com", ""},
			wantStats: Stats{Input: 5, Missing: 1, Empty: 1, Output: 4},
		},
		{
			name:      "trim dedupe drop empty",
			policy:    Policy{Case: contactutil.CaseLower, Missing: MissingDrop, TrimSpace: true, DropEmpty: true, DropDuplicates: true},
			want:      []string{"john@bba.com", "sara@audi.de"},
			wantStats: Stats{Input: 5, Missing: 1, Empty: 1, Duplicates: 1, Output: 2},
		},
		{
			name:      "fill missing",
			policy:    Policy{Case: contactutil.CaseUpper, Missing: MissingFill, FillValue: "unknown@none.invalid", TrimSpace: true, DropEmpty: true},
			want:      []string{"JOHN@BBA.COM", "UNKNOWN@NONE.INVALID", "SARA@AUDI.DE", "JOHN@BBA.COM"},
			wantStats: Stats{Input: 5, Filled: 1, Empty: 1, Output: 4},
		},
		{
			name:      "keep case",
			policy:    Policy{Case: contactutil.CaseKeep, Missing: MissingDrop},
			want:      []string{" JOHN@bba.com ", "Sara@Audi.de", "john@BBA.com", "   "},
			wantStats: Stats{Input: 5, Missing: 1, Output: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := mustNew(t, tt.policy).Run(context.Background(), in)
			require.NoError(t, err)
			require.Equal(t, tt.want, res.Emails)
			require.Equal(t, tt.wantStats, res.Stats)
		})
	}
}

func TestNormalizer_Validation(t *testing.T) {
	in := []Record{
		{Name: "John", Contact: Text("JOHN@bba.com")},
		{Name: "Bad", Contact: Text("not-an-email")},
		{Name: "Empty", Contact: Text("")},
	}

	p := DefaultPolicy()
	p.ValidateEmail = true

	res, err := mustNew(t, p).Run(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, []string{"john@bba.com", "not-an-email", ""}, res.Emails)
	require.Equal(t, 2, res.Stats.Invalid)
	require.Equal(t, []Violation{
		{Index: 1, Name: "Bad", Value: "not-an-email", Reason: "invalid_email"},
		{Index: 2, Name: "Empty", Value: "", Reason: "required"},
	}, res.Violations)

	p.DropInvalid = true
	res, err = mustNew(t, p).Run(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, []string{"john@bba.com"}, res.Emails)
	require.Equal(t, 1, res.Stats.Output)
}

func TestNormalizer_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mustNew(t, DefaultPolicy()).Run(ctx, sampleRecords())
	require.ErrorIs(t, err, context.Canceled)
}

func TestNormalizer_ObserverAndLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	ticks := []time.Time{time.Unix(100, 0), time.Unix(100, int64(250*time.Millisecond))}
	clock := func() time.Time {
		now := ticks[0]
		ticks = ticks[1:]
		return now
	}

	obs := &recordingObserver{}
	p := DefaultPolicy()
	p.ValidateEmail = true
	n := mustNew(t, p, WithLogger(l), WithObserver(obs), withClock(clock))

	ctx := logger.ContextWithBatchID(context.Background(), "batch-7")
	_, err := n.Run(ctx, append(sampleRecords(), Record{Name: "Bad", Contact: Text("bad")}))
	require.NoError(t, err)

	require.Equal(t, 1, obs.calls)
	require.Equal(t, 250*time.Millisecond, obs.elapsed)
	require.Equal(t, Stats{Input: 4, Missing: 1, Invalid: 1, Output: 3}, obs.stats)

	summary := logs.FilterMessage("contacts normalized").All()
	require.Len(t, summary, 1)
	fields := summary[0].ContextMap()
	require.Equal(t, "batch-7", fields["batch_id"])
	require.EqualValues(t, 3, fields["output"])

	invalid := logs.FilterMessage("invalid contact").All()
	require.Len(t, invalid, 1)
	require.Equal(t, "b*d", invalid[0].ContextMap()["value"])
}

func TestNew_RejectsInvalidPolicy(t *testing.T) {
	tests := []struct {
		name  string
		p     Policy
		field string
	}{
		{name: "zero case", p: Policy{Missing: MissingDrop}, field: "case"},
		{name: "unknown case", p: Policy{Case: "camel", Missing: MissingDrop}, field: "case"},
		{name: "unknown missing", p: Policy{Case: contactutil.CaseLower, Missing: "skip"}, field: "missing"},
		{name: "drop invalid without validation", p: Policy{Case: contactutil.CaseLower, Missing: MissingDrop, DropInvalid: true}, field: "drop_invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.p)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidPolicy))
			require.True(t, ferrors.IsInvariant(err))
			field, _ := ferrors.FieldOf(err)
			require.Equal(t, tt.field, field)
		})
	}
}

func TestParseMissing(t *testing.T) {
	m, ok := ParseMissing("")
	require.True(t, ok)
	require.Equal(t, MissingDrop, m)

	m, ok = ParseMissing(" FILL ")
	require.True(t, ok)
	require.Equal(t, MissingFill, m)

	_, ok = ParseMissing("ignore")
	require.False(t, ok)
}

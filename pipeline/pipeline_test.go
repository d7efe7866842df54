package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vortex-fintech/contactnorm/contact"
	"github.com/vortex-fintech/contactnorm/foundation/logger"
	"github.com/vortex-fintech/contactnorm/sink"
	"github.com/vortex-fintech/contactnorm/source"
)

type staticSource struct {
	records []contact.Record
	err     error
}

func (s staticSource) Name() string { return "static" }

func (s staticSource) Load(context.Context) ([]contact.Record, error) {
	return s.records, s.err
}

type failingSink struct{ err error }

func (s failingSink) Write(context.Context, []string) error { return s.err }

func newNormalizer(t *testing.T, p contact.Policy) *contact.Normalizer {
	t.Helper()
	n, err := contact.New(p)
	require.NoError(t, err)
	return n
}

func TestPipeline_JSONToLines(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	in := `[{"name":"John","contact":"JOHN@bba.com"},{"name":"Mike","contact":null},{"name":"Sara","contact":"Sara@Audi.de"},{"name":"Eve"}]`
	var out bytes.Buffer

	p := New(source.NewJSON(strings.NewReader(in)), newNormalizer(t, contact.DefaultPolicy()), sink.NewLines(&out), l)
	res, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"john@bba.com", "sara@audi.de"}, res.Emails)
	require.Equal(t, "john@bba.com\nsara@audi.de\n", out.String())

	loaded := logs.FilterMessage("records loaded").All()
	require.Len(t, loaded, 1)
	fields := loaded[0].ContextMap()
	require.Equal(t, "json", fields["source"])
	require.EqualValues(t, 1, fields["missing_key"])
	require.EqualValues(t, 1, fields["null_value"])
}

func TestPipeline_ReportsViolations(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}

	pol := contact.DefaultPolicy()
	pol.ValidateEmail = true
	src := staticSource{records: []contact.Record{
		{Name: "John", Contact: contact.Text("john@bba.com")},
		{Name: "Typo", Contact: contact.Text("sara.audi.de")},
	}}

	var out bytes.Buffer
	res, err := New(src, newNormalizer(t, pol), sink.NewLines(&out), l).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Violations, 1)

	warned := logs.FilterMessage("contact is not an e-mail address").All()
	require.Len(t, warned, 1)
	require.Equal(t, "Typo", warned[0].ContextMap()["name"])
	require.Equal(t, "static", warned[0].ContextMap()["source"])
}

func TestPipeline_Errors(t *testing.T) {
	boom := errors.New("boom")
	n := newNormalizer(t, contact.DefaultPolicy())

	_, err := New(staticSource{err: boom}, n, sink.NewLines(&bytes.Buffer{}), nil).Run(context.Background())
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "load static")

	_, err = New(staticSource{}, n, failingSink{err: boom}, nil).Run(context.Background())
	require.ErrorIs(t, err, boom)
	require.ErrorContains(t, err, "write")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(staticSource{records: []contact.Record{{Name: "a"}}}, n, failingSink{}, nil).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

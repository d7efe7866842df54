// Package pipeline runs one load → normalize → write pass.
package pipeline

import (
	"context"
	"fmt"

	"github.com/vortex-fintech/contactnorm/contact"
	"github.com/vortex-fintech/contactnorm/foundation/logger"
	"github.com/vortex-fintech/contactnorm/sink"
	"github.com/vortex-fintech/contactnorm/source"
)

type Pipeline struct {
	src source.Source
	n   *contact.Normalizer
	dst sink.Sink
	log logger.LoggerInterface
}

func New(src source.Source, n *contact.Normalizer, dst sink.Sink, log logger.LoggerInterface) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{src: src, n: n, dst: dst, log: log}
}

func (p *Pipeline) Run(ctx context.Context) (contact.Result, error) {
	ctx = logger.ContextWithSource(ctx, p.src.Name())

	records, err := p.src.Load(ctx)
	if err != nil {
		return contact.Result{}, fmt.Errorf("load %s: %w", p.src.Name(), err)
	}
	if js, ok := p.src.(*source.JSON); ok {
		st := js.Stats()
		p.log.InfowCtx(ctx, "records loaded", "records", st.Records, "missing_key", st.MissingKey, "null_value", st.NullValue)
	} else {
		p.log.InfowCtx(ctx, "records loaded", "records", len(records))
	}

	res, err := p.n.Run(ctx, records)
	if err != nil {
		return contact.Result{}, err
	}
	for _, v := range res.Violations {
		p.log.WarnwCtx(ctx, "contact is not an e-mail address", "index", v.Index, "name", v.Name, "reason", v.Reason)
	}

	if err := p.dst.Write(ctx, res.Emails); err != nil {
		return contact.Result{}, fmt.Errorf("write: %w", err)
	}
	return res, nil
}

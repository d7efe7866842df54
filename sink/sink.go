// Package sink delivers normalized e-mails.
package sink

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/vortex-fintech/contactnorm/data/redis"
)

type Sink interface {
	Write(ctx context.Context, emails []string) error
}

var _ Sink = (*redis.ListSink)(nil)

// Lines writes one e-mail per line.
type Lines struct {
	w io.Writer
}

func NewLines(w io.Writer) *Lines {
	return &Lines{w: w}
}

func (s *Lines) Write(ctx context.Context, emails []string) error {
	bw := bufio.NewWriter(s.w)
	for i, e := range emails {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if _, err := bw.WriteString(e); err != nil {
			return fmt.Errorf("lines: write: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("lines: write: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("lines: flush: %w", err)
	}
	return nil
}

package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/vortex-fintech/contactnorm/contact"
	"github.com/vortex-fintech/contactnorm/foundation/contactutil"
)

type CSVOptions struct {
	// Column names are matched after header normalisation ("Contact Email" -> "contact_email").
	NameColumn    string
	ContactColumn string
	Comma         rune

	// KeepEmpty turns an empty contact cell into "" instead of an absent value.
	KeepEmpty bool
}

func (o CSVOptions) withDefaults() CSVOptions {
	if o.NameColumn == "" {
		o.NameColumn = "name"
	}
	if o.ContactColumn == "" {
		o.ContactColumn = "contact"
	}
	if o.Comma == 0 {
		o.Comma = ','
	}
	o.NameColumn = contactutil.NormalizeHeader(o.NameColumn)
	o.ContactColumn = contactutil.NormalizeHeader(o.ContactColumn)
	return o
}

// CSV reads records from a file with a header row. Cells spelling out a null
// ("null", "NaN", "n/a", ...) are absent contacts.
type CSV struct {
	r    io.Reader
	opts CSVOptions
}

func NewCSV(r io.Reader, opts CSVOptions) *CSV {
	return &CSV{r: r, opts: opts.withDefaults()}
}

func (s *CSV) Name() string { return "csv" }

func (s *CSV) Load(ctx context.Context) ([]contact.Record, error) {
	cr := csv.NewReader(s.r)
	cr.Comma = s.opts.Comma
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []contact.Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: header: %w: %v", ErrMalformedInput, err)
	}

	nameIdx, contactIdx := -1, -1
	for i, h := range header {
		switch contactutil.NormalizeHeader(h) {
		case s.opts.NameColumn:
			nameIdx = i
		case s.opts.ContactColumn:
			contactIdx = i
		}
	}
	if contactIdx < 0 {
		return nil, fmt.Errorf("csv: %w: %q", ErrMissingColumn, s.opts.ContactColumn)
	}

	var out []contact.Record
	for line := 2; ; line++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w: %v", line, ErrMalformedInput, err)
		}

		var r contact.Record
		if nameIdx >= 0 && nameIdx < len(row) {
			r.Name = row[nameIdx]
		}
		if contactIdx < len(row) {
			r.Contact = s.cell(row[contactIdx])
		}
		out = append(out, r)
	}
	if out == nil {
		out = []contact.Record{}
	}
	return out, nil
}

func (s *CSV) cell(v string) *string {
	if v == "" && !s.opts.KeepEmpty {
		return nil
	}
	if contactutil.IsNullToken(v) {
		return nil
	}
	return contact.Text(v)
}

package source

import (
	"context"
	"fmt"
	"io"

	"github.com/tidwall/gjson"

	"github.com/vortex-fintech/contactnorm/contact"
	ferrors "github.com/vortex-fintech/contactnorm/foundation/errors"
)

// JSONStats tells apart the two ways a contact can be absent.
type JSONStats struct {
	Records    int
	MissingKey int
	NullValue  int
}

// JSON reads either a top-level array of {"name", "contact"} objects or an
// object holding that array under "records".
type JSON struct {
	r     io.Reader
	stats JSONStats
}

func NewJSON(r io.Reader) *JSON {
	return &JSON{r: r}
}

func (s *JSON) Name() string { return "json" }

// Stats reports counts from the last Load.
func (s *JSON) Stats() JSONStats { return s.stats }

func (s *JSON) Load(ctx context.Context) ([]contact.Record, error) {
	data, err := io.ReadAll(s.r)
	if err != nil {
		return nil, fmt.Errorf("json: read: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, stats, err := ParseJSON(data)
	if err != nil {
		return nil, err
	}
	s.stats = stats
	return records, nil
}

// ParseJSON decodes contact records. A missing "contact" key and an explicit
// null are both absent; any non-string contact is rejected.
func ParseJSON(data []byte) ([]contact.Record, JSONStats, error) {
	var stats JSONStats
	if !gjson.ValidBytes(data) {
		return nil, stats, fmt.Errorf("json: %w", ErrMalformedInput)
	}

	root := gjson.ParseBytes(data)
	if root.IsObject() {
		root = root.Get("records")
	}
	if !root.IsArray() {
		return nil, stats, fmt.Errorf("json: %w: expected an array of records", ErrMalformedInput)
	}

	items := root.Array()
	out := make([]contact.Record, 0, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, stats, ferrors.DomainInvariant(fmt.Sprintf("records[%d]", i), "not_object")
		}

		var r contact.Record
		switch name := item.Get("name"); {
		case !name.Exists(), name.Type == gjson.Null:
		case name.Type == gjson.String:
			r.Name = name.Str
		default:
			return nil, stats, ferrors.DomainInvariant(fmt.Sprintf("records[%d].name", i), "not_text")
		}

		switch c := item.Get("contact"); {
		case !c.Exists():
			stats.MissingKey++
		case c.Type == gjson.Null:
			stats.NullValue++
		case c.Type == gjson.String:
			r.Contact = contact.Text(c.Str)
		default:
			return nil, stats, ferrors.DomainInvariant(fmt.Sprintf("records[%d].contact", i), "not_text")
		}

		out = append(out, r)
	}
	stats.Records = len(out)
	return out, stats, nil
}

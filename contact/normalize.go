package contact

import "github.com/vortex-fintech/contactnorm/foundation/contactutil"

// Normalize drops records without a contact and lowercases the rest, keeping
// input order. The input slice is not modified and the result is never nil.
func Normalize(records []Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		if r.Contact == nil {
			continue
		}
		out = append(out, contactutil.ApplyCase(*r.Contact, contactutil.CaseLower))
	}
	return out
}

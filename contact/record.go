// Package contact turns raw contact records into clean e-mail lists.
package contact

// Record is one input row. A nil Contact means the value is absent; an empty
// string is a present value.
type Record struct {
	Name    string  `json:"name"`
	Contact *string `json:"contact"`
}

// Text returns a pointer to s for building records with a present contact.
func Text(s string) *string {
	return &s
}

func (r Record) HasContact() bool {
	return r.Contact != nil
}

// ContactOr returns the contact value or def when it is absent.
func (r Record) ContactOr(def string) string {
	if r.Contact == nil {
		return def
	}
	return *r.Contact
}

package idutil

import "github.com/google/uuid"

// NewBatchID returns a time-ordered UUIDv7 so batch ids sort by start time
// in logs. It falls back to a random v4 id if the v7 clock read fails.
func NewBatchID() string {
	u, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return u.String()
}

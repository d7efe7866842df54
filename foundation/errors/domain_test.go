package errors

import (
	"errors"
	"fmt"
	"testing"
)

var errBase = errors.New("bad setting")

func TestInvariantError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "domain with field", err: DomainInvariant("records[1].contact", "not_text"), want: "records[1].contact: not_text"},
		{name: "domain without field", err: DomainInvariant("", "broken"), want: "broken"},
		{name: "config empty", err: ConfigInvariant(nil, "", ""), want: "config: invalid"},
		{name: "config reason only", err: ConfigInvariant(nil, "", "unknown"), want: "config: unknown"},
		{name: "config field", err: ConfigInvariant(errBase, "case", "unknown_mode"), want: "config: case: unknown_mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsInvariantAndUnwrap(t *testing.T) {
	err := fmt.Errorf("load: %w", ConfigInvariant(errBase, "format", "unknown"))

	if !IsInvariant(err) {
		t.Fatalf("expected invariant error")
	}
	if !errors.Is(err, errBase) {
		t.Fatalf("expected errors.Is to reach base")
	}
	if IsInvariant(errBase) {
		t.Fatalf("plain error must not be an invariant")
	}

	field, ok := FieldOf(err)
	if !ok || field != "format" {
		t.Fatalf("FieldOf = %q, %v", field, ok)
	}
	if _, ok := FieldOf(errBase); ok {
		t.Fatalf("FieldOf on plain error must report false")
	}
}

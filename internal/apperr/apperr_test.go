package apperr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationError_Message(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields []string
		want   string
	}{
		{name: "no fields", fields: nil, want: "validation failed"},
		{name: "one field", fields: []string{"fullName"}, want: "validation failed: missing fullName"},
		{name: "many fields", fields: []string{"fullName", "builderEmail"}, want: "validation failed: missing fullName, builderEmail"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := &ValidationError{Fields: tt.fields}
			if got := err.Error(); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestValidationError_As(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("submit: %w", &ValidationError{Fields: []string{"address"}})

	var validationErr *ValidationError
	if !errors.As(wrapped, &validationErr) {
		t.Fatalf("expected errors.As to find ValidationError in %v", wrapped)
	}
	if len(validationErr.Fields) != 1 || validationErr.Fields[0] != "address" {
		t.Fatalf("unexpected fields: %v", validationErr.Fields)
	}
}

func TestResetError_Unwrap(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection refused")
	err := &ResetError{Partial: false, Err: cause}

	if !errors.Is(err, cause) {
		t.Fatalf("expected ResetError to unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "reset failed") {
		t.Fatalf("unexpected message: %q", err.Error())
	}

	partial := &ResetError{Partial: true, Err: cause}
	if !strings.Contains(partial.Error(), "partially applied") {
		t.Fatalf("partial reset should say so, got %q", partial.Error())
	}
}

func TestSentinels_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{ErrNotFound, ErrInvalidTransition, ErrGateway, ErrMissingUser}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Fatalf("sentinel %v should not match %v", a, b)
			}
		}
	}

	wrapped := fmt.Errorf("share abc: %w", ErrNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatalf("wrapped sentinel should still match")
	}
}

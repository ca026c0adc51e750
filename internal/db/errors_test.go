package db

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIs(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantValidate bool
		wantNotFound bool
	}{
		{"validation", NewValidationError("area must be >= 0"), true, false},
		{"not found", NewNotFoundError("property", 7), false, true},
		{"wrapped validation", fmt.Errorf("creating visit: %w", NewValidationError("bad agent")), true, false},
		{"plain error", errors.New("boom"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, ErrValidation); got != tt.wantValidate {
				t.Errorf("Is(ErrValidation) = %v, want %v", got, tt.wantValidate)
			}
			if got := errors.Is(tt.err, ErrNotFound); got != tt.wantNotFound {
				t.Errorf("Is(ErrNotFound) = %v, want %v", got, tt.wantNotFound)
			}
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	err := NewNotFoundError("visit", int64(12))
	if err.Error() != "visit 12 not found" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestClassifyPassesThroughOtherErrors(t *testing.T) {
	plain := errors.New("disk full")
	if got := Classify(plain, "property"); got != plain {
		t.Errorf("Classify changed a non-constraint error: %v", got)
	}
}

func TestClassifyUnique(t *testing.T) {
	d := openTestDB(t)

	insertUser(t, d, "dupe@example.com")
	_, err := d.Exec(`INSERT INTO users (name, surname, email, password_hash) VALUES ('a', 'b', 'dupe@example.com', 'x')`)
	if err == nil {
		t.Fatal("expected unique violation")
	}

	classified := Classify(err, "user")
	if !errors.Is(classified, ErrValidation) {
		t.Fatalf("expected validation error, got %v", classified)
	}
	var dbErr *Error
	if !errors.As(classified, &dbErr) || dbErr.Code != CodeValidation {
		t.Errorf("expected *Error with validation code, got %#v", classified)
	}
}

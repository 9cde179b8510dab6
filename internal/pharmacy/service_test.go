package pharmacy

import (
	"errors"
	"testing"
	"time"
)

func TestNewRequestID(t *testing.T) {
	now := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	got := NewRequestID(now)
	want := "DR20250314092653"
	if got != want {
		t.Errorf("NewRequestID() = %q, want %q", got, want)
	}
}

func TestValidateDispenseLines(t *testing.T) {
	tests := []struct {
		name       string
		itemIDs    []string
		quantities []int
		wantErr    bool
	}{
		{"valid single line", []string{"it-1"}, []int{5}, false},
		{"valid multiple lines", []string{"it-1", "it-2"}, []int{5, 1}, false},
		{"empty lines", nil, nil, true},
		{"length mismatch", []string{"it-1", "it-2"}, []int{5}, true},
		{"zero quantity", []string{"it-1"}, []int{0}, true},
		{"negative quantity", []string{"it-1", "it-2"}, []int{3, -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDispenseLines(tt.itemIDs, tt.quantities)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDispenseLines() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Errorf("error type = %T, want *ValidationError", err)
				}
			}
		})
	}
}

func TestErrorTypes(t *testing.T) {
	notFound := &NotFoundError{Resource: "dispense request", ID: "DR20250101000000"}
	if notFound.Error() == "" {
		t.Error("NotFoundError.Error() should not be empty")
	}

	var target *NotFoundError
	if !errors.As(error(notFound), &target) {
		t.Error("errors.As should match *NotFoundError")
	}

	conflict := &ConflictError{Message: "insufficient stock"}
	if conflict.Error() != "insufficient stock" {
		t.Errorf("ConflictError.Error() = %q", conflict.Error())
	}
}

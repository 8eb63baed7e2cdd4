package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfWrapped(t *testing.T) {
	sentinel := NotFound("employee not found")
	wrapped := fmt.Errorf("load payroll: %w", sentinel)

	if KindOf(wrapped) != KindNotFound {
		t.Fatalf("expected not_found, got %q", KindOf(wrapped))
	}
	if !errors.Is(wrapped, sentinel) {
		t.Fatal("expected errors.Is to match sentinel")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Fatal("expected empty kind for unclassified error")
	}
}

func TestValidationCarriesField(t *testing.T) {
	err := Validation("rejectionReason", "is required")
	fields := Fields(err)
	if len(fields) != 1 || fields[0].Field != "rejectionReason" {
		t.Fatalf("unexpected fields: %+v", fields)
	}
}

package expense

import (
	"context"
	"testing"

	"peoplehub/internal/apperr"
)

func TestCreateRejectsInvalidInput(t *testing.T) {
	svc := NewService(nil)
	cases := []struct {
		name string
		in   Expense
		want error
	}{
		{"zero amount", Expense{Category: "Travel", Amount: 0}, ErrInvalidAmount},
		{"negative amount", Expense{Category: "Travel", Amount: -5}, ErrInvalidAmount},
		{"unknown status", Expense{Category: "Travel", Amount: 10, Status: "Approved"}, ErrInvalidStatus},
	}
	for _, tc := range cases {
		_, err := svc.Create(context.Background(), "t1", "u1", tc.in)
		if err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
		if apperr.KindOf(err) != apperr.KindValidation {
			t.Fatalf("%s: expected validation kind, got %v", tc.name, apperr.KindOf(err))
		}
	}
}

func TestCreateForReferenceRejectsNegativeAmount(t *testing.T) {
	svc := NewService(nil)
	if _, _, err := svc.CreateForReference(context.Background(), nil, "t1", Expense{Amount: -1}); err != ErrInvalidAmount {
		t.Fatalf("expected invalid amount, got %v", err)
	}
}

func TestValidStatus(t *testing.T) {
	for _, st := range Statuses {
		if !validStatus(st) {
			t.Fatalf("%s should be valid", st)
		}
	}
	if validStatus("paid") {
		t.Fatal("status match should be exact")
	}
}

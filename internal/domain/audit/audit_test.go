package audit

import (
	"strings"
	"testing"
	"time"
)

func TestBuildBaseQueryNumbersPlaceholders(t *testing.T) {
	query, args := buildBaseQuery("SELECT COUNT(1)", "t1", Filter{
		Action:     "payroll.generate",
		EntityType: "payroll",
		From:       time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
	})
	if len(args) != 4 {
		t.Fatalf("expected 4 args, got %d", len(args))
	}
	for _, want := range []string{"action = $2", "entity_type = $3", "created_at >= $4"} {
		if !strings.Contains(query, want) {
			t.Fatalf("expected %q in %s", want, query)
		}
	}
}

func TestMarshalOptionalNil(t *testing.T) {
	payload, err := marshalOptional(nil)
	if err != nil || payload != nil {
		t.Fatalf("expected nil payload, got %q %v", payload, err)
	}
}

package ticket

import (
	"strings"
	"testing"

	"peoplehub/internal/domain/auth"
)

func TestNewCodeFormat(t *testing.T) {
	code := NewCode()
	if !strings.HasPrefix(code, "TKT-") || len(code) != 12 {
		t.Fatalf("unexpected code %q", code)
	}
	if code != strings.ToUpper(code) {
		t.Fatalf("code should be upper case: %q", code)
	}
	if NewCode() == code {
		t.Fatalf("codes should differ")
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusOpen, StatusInProgress, true},
		{StatusOpen, StatusReopened, false},
		{StatusResolved, StatusReopened, true},
		{StatusClosed, StatusOpen, false},
		{StatusClosed, StatusReopened, true},
		{StatusReopened, StatusResolved, true},
		{StatusInProgress, StatusOpen, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Fatalf("%s -> %s: got %v want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanManage(t *testing.T) {
	creator := auth.UserContext{UserID: "u1", RoleName: auth.RoleEmployee}
	other := auth.UserContext{UserID: "u2", RoleName: auth.RoleEmployee}
	hr := auth.UserContext{UserID: "u3", RoleName: auth.RoleHR}
	if err := CanManage(creator, "u1"); err != nil {
		t.Fatalf("creator: %v", err)
	}
	if err := CanManage(hr, "u1"); err != nil {
		t.Fatalf("hr: %v", err)
	}
	if err := CanManage(other, "u1"); err != ErrNotAllowed {
		t.Fatalf("other: got %v", err)
	}
}

func TestNormalizeDefaults(t *testing.T) {
	in := CreateInput{Subject: "  Laptop broken ", Category: "IT"}
	if err := normalize(&in); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if in.Subject != "Laptop broken" || in.Priority != "Medium" {
		t.Fatalf("unexpected input %+v", in)
	}
	bad := CreateInput{Subject: "x", Category: "Travel"}
	if err := normalize(&bad); err != ErrInvalidCategory {
		t.Fatalf("expected category error, got %v", err)
	}
}

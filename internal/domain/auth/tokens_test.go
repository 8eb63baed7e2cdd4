package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTripCarriesEmployee(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1", TenantID: "t1", RoleID: "r1", RoleName: RoleTeamLead, EmployeeID: "e1"}, time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	user := claims.User()
	if user.EmployeeID != "e1" || user.RoleName != RoleTeamLead {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1"}, time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatal("expected signature error")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("secret", Claims{UserID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("Secret#123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if CheckPassword(hash, "Secret#123") != nil {
		t.Fatal("expected password to match")
	}
	if CheckPassword(hash, "wrong") == nil {
		t.Fatal("expected mismatch")
	}
}

func TestRefreshTokenHashStable(t *testing.T) {
	token, hash, err := NewRefreshToken()
	if err != nil {
		t.Fatalf("refresh token: %v", err)
	}
	if HashRefreshToken(token) != hash {
		t.Fatal("expected hash of issued token to match")
	}
}

func TestRolePermissionsSubsetOfDefaults(t *testing.T) {
	known := map[string]bool{}
	for _, perm := range DefaultPermissions {
		known[perm] = true
	}
	for role, perms := range RolePermissions {
		for _, perm := range perms {
			if !known[perm] {
				t.Fatalf("role %s has unknown permission %s", role, perm)
			}
		}
	}
	if len(RolePermissions[RoleEmployee]) >= len(RolePermissions[RoleHR]) {
		t.Fatal("expected HR to hold more permissions than Employee")
	}
}

package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/odontoflow/clinic-api/internal/access"
)

func TestIssueAndVerify(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	userID := uuid.New()

	signed, err := tokens.Issue(userID, access.RoleDentist)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	caller, err := tokens.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if caller.UserID != userID {
		t.Fatalf("UserID = %s, want %s", caller.UserID, userID)
	}
	if caller.Role != access.RoleDentist {
		t.Fatalf("Role = %s, want DENTIST", caller.Role)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed, err := NewTokens("secret-a", time.Hour).Issue(uuid.New(), access.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewTokens("secret-b", time.Hour).Verify(signed); err == nil {
		t.Fatal("expected verification to fail with a different secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tokens := &Tokens{secret: []byte("test-secret"), ttl: -time.Minute}
	signed, err := tokens.Issue(uuid.New(), access.RoleAdmin)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := tokens.Verify(signed); err == nil {
		t.Fatal("expected verification of an expired token to fail")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := NewTokens("test-secret", time.Hour)
	if _, err := tokens.Verify("not.a.token"); err == nil {
		t.Fatal("expected garbage token to fail")
	}
}

func TestIssueRequiresSecret(t *testing.T) {
	tokens := NewTokens("", time.Hour)
	if _, err := tokens.Issue(uuid.New(), access.RoleAdmin); err == nil {
		t.Fatal("expected issue without secret to fail")
	}
}

package auth_test

import (
	"testing"
	"time"

	"github.com/campfire-dev/campfire/internal/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := tokens.Generate(42, "a@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	userID, err := tokens.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if userID != 42 {
		t.Errorf("userID = %d, want 42", userID)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tokens, err := auth.NewTokenManager("test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := tokens.Generate(1, "a@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := tokens.Verify(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	signer, err := auth.NewTokenManager("secret-one", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	verifier, err := auth.NewTokenManager("secret-two", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := signer.Generate(1, "a@example.com")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Error("expected token signed with another secret to be rejected")
	}

	if _, err := verifier.Verify("junk"); err == nil {
		t.Error("expected malformed token to be rejected")
	}
}

func TestEmptySecretRejected(t *testing.T) {
	if _, err := auth.NewTokenManager("", time.Hour); err == nil {
		t.Error("expected empty secret to be rejected")
	}
}

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	signer := NewTokenSigner("test-secret")

	token, err := signer.Issue("a@x.com", PurposePasswordReset)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	email, err := signer.Verify(token, PurposePasswordReset, time.Hour)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if email != "a@x.com" {
		t.Fatalf("expected original payload, got %q", email)
	}
}

func TestTokenExpired(t *testing.T) {
	signer := NewTokenSigner("test-secret")

	token, err := signer.Issue("a@x.com", PurposePasswordReset)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if _, err := signer.Verify(token, PurposePasswordReset, time.Millisecond); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenPurposeMismatch(t *testing.T) {
	signer := NewTokenSigner("test-secret")

	token, err := signer.Issue("a@x.com", PurposePasswordReset)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := signer.Verify(token, "email-confirmation", time.Hour); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for other purpose, got %v", err)
	}
}

func TestTokenTamperedSignature(t *testing.T) {
	signer := NewTokenSigner("test-secret")

	token, err := signer.Issue("a@x.com", PurposePasswordReset)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := signer.Verify(tampered, PurposePasswordReset, time.Hour); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for tampered signature, got %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenSigner("secret-one").Issue("a@x.com", PurposePasswordReset)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := NewTokenSigner("secret-two").Verify(token, PurposePasswordReset, time.Hour); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid across secrets, got %v", err)
	}
}

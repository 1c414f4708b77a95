package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)

	token, err := codec.IssueRole("H4")
	if err != nil {
		t.Fatalf("IssueRole = %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify = %v", err)
	}
	if got := ClaimString(claims, "role"); got != "H4" {
		t.Errorf("role claim = %q, want H4", got)
	}
	if ClaimString(claims, "jti") == "" {
		t.Error("expected a jti claim")
	}
}

func TestTokenCodec_RejectsWrongSecret(t *testing.T) {
	token, err := NewTokenCodec("secret-a", time.Hour).IssueIdentity("test")
	if err != nil {
		t.Fatalf("IssueIdentity = %v", err)
	}

	if _, err := NewTokenCodec("secret-b", time.Hour).Verify(token); !errors.Is(err, ErrBadToken) {
		t.Errorf("Verify with wrong secret = %v, want ErrBadToken", err)
	}
}

func TestTokenCodec_RejectsExpired(t *testing.T) {
	codec := NewTokenCodec("test-secret", -time.Minute)
	token, err := codec.IssueIdentity("test")
	if err != nil {
		t.Fatalf("IssueIdentity = %v", err)
	}

	if _, err := codec.Verify(token); !errors.Is(err, ErrBadToken) {
		t.Errorf("Verify expired token = %v, want ErrBadToken", err)
	}
}

func TestTokenCodec_RejectsGarbage(t *testing.T) {
	codec := NewTokenCodec("test-secret", time.Hour)
	if _, err := codec.Verify("not.a.token"); !errors.Is(err, ErrBadToken) {
		t.Errorf("Verify garbage = %v, want ErrBadToken", err)
	}
}

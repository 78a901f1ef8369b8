package token

import (
	"errors"
	"testing"
	"time"
)

func TestNewRequiresSecret(t *testing.T) {
	if _, err := New("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	iss, err := New("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	signed, err := iss.Issue("acc-1", "admin", "super_admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := iss.Verify(signed)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.ID != "acc-1" {
		t.Errorf("id: got %q, want acc-1", claims.ID)
	}
	if claims.Username != "admin" {
		t.Errorf("username: got %q, want admin", claims.Username)
	}
	if claims.Role != "super_admin" {
		t.Errorf("role: got %q, want super_admin", claims.Role)
	}
}

func TestVerifyMissingToken(t *testing.T) {
	iss, _ := New("test-secret", time.Hour)
	_, err := iss.Verify("")
	if !errors.Is(err, ErrMissingToken) {
		t.Errorf("expected ErrMissingToken, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	iss, _ := New("test-secret", time.Hour)
	_, err := iss.Verify("not.a.jwt")
	if !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issA, _ := New("secret-a", time.Hour)
	issB, _ := New("secret-b", time.Hour)

	signed, err := issA.Issue("acc-1", "admin", "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := issB.Verify(signed); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	iss := &Issuer{secret: []byte("test-secret"), ttl: -time.Minute}

	signed, err := iss.Issue("acc-1", "admin", "admin")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := iss.Verify(signed); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestNewDefaultsTTL(t *testing.T) {
	iss, err := New("test-secret", 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if iss.ttl != 7*24*time.Hour {
		t.Errorf("expected default 7-day ttl, got %v", iss.ttl)
	}
}

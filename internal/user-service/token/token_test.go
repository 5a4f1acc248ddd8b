package token

import (
	"errors"
	"testing"
)

func TestIssueAndParse(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}

	signed, err := issuer.Issue("user-42", "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if signed == "" {
		t.Fatalf("expected a signed token")
	}

	claims, err := issuer.Parse(signed)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "user-42" || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "user-42" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if claims.ExpiresAt != nil {
		t.Fatalf("tokens must not expire, got %v", claims.ExpiresAt)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewIssuer("secret-a")
	other, _ := NewIssuer("secret-b")

	signed, err := issuer.Issue("user-42", "alice")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if _, err := other.Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	if _, err := NewIssuer(""); err == nil {
		t.Fatalf("expected an error for empty secret")
	}
}

package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("secret", time.Hour)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	token, err := issuer.GenerateJWT("owner")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	sub, err := issuer.ValidateJWT(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if sub != "owner" {
		t.Fatalf("subject = %q, want owner", sub)
	}
}

func TestTokenRejectsForeignAndExpired(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret", time.Hour)
	other, _ := NewTokenIssuer("other-secret", time.Hour)
	token, _ := other.GenerateJWT("owner")
	if _, err := issuer.ValidateJWT(token); err == nil {
		t.Fatalf("token signed with another secret accepted")
	}

	token, _ = issuer.GenerateJWT("owner")
	issuer.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := issuer.ValidateJWT(token); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("1234")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPasswordHash("1234", hash) {
		t.Fatalf("correct passcode rejected")
	}
	if CheckPasswordHash("4321", hash) {
		t.Fatalf("wrong passcode accepted")
	}
}

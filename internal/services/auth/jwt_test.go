package auth

import (
	"errors"
	"testing"
	"time"
)

func TestJWTManagerRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", 15*time.Minute, 24*time.Hour)

	token, expires, err := m.GenerateAccessToken(7, "sid-1", RoleAdmin)
	if err != nil {
		t.Fatalf("generate access token: %v", err)
	}
	if !expires.After(time.Now()) {
		t.Fatalf("expiry in the past: %v", expires)
	}

	claims, err := m.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != 7 || claims.SID != "sid-1" || claims.Role != RoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTManagerRejectsRefreshAsAccess(t *testing.T) {
	m := NewJWTManager("secret", 15*time.Minute, 24*time.Hour)

	refresh, _, err := m.GenerateRefreshToken(7, "sid-1")
	if err != nil {
		t.Fatalf("generate refresh token: %v", err)
	}

	if _, err := m.ParseAccessToken(refresh); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for refresh token, got %v", err)
	}
	if err := m.VerifyRefreshToken(refresh); err != nil {
		t.Fatalf("verify refresh token: %v", err)
	}
}

func TestJWTManagerRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", 15*time.Minute, 24*time.Hour)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := m.generate(7, "sid-1", RoleAdmin, tokenTypeAccess, time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	m.now = time.Now
	if _, err := m.ParseAccessToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for expired token, got %v", err)
	}
}

func TestJWTManagerRejectsWrongSecret(t *testing.T) {
	signer := NewJWTManager("secret-a", 15*time.Minute, 24*time.Hour)
	verifier := NewJWTManager("secret-b", 15*time.Minute, 24*time.Hour)

	token, _, err := signer.GenerateAccessToken(7, "sid-1", RoleAdmin)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := verifier.ParseAccessToken(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong secret, got %v", err)
	}
}

package auth

import (
	"testing"
	"time"
)

func newTestAuthenticator() *JWTAuthenticator {
	return NewJWTAuthenticator("access-secret", "refresh-secret", "taktivent", time.Hour, 24*time.Hour)
}

func TestGenerateAndValidate(t *testing.T) {
	a := newTestAuthenticator()

	access, refresh, err := a.GenerateTokens(42)
	if err != nil {
		t.Fatal(err)
	}

	tok, err := a.ValidateAccessToken(access)
	if err != nil {
		t.Fatalf("access token rejected: %v", err)
	}
	if id, ok := UserID(tok); !ok || id != 42 {
		t.Errorf("UserID = %d, %v; want 42", id, ok)
	}

	tok, err = a.ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("refresh token rejected: %v", err)
	}
	if id, _ := UserID(tok); id != 42 {
		t.Errorf("refresh UserID = %d, want 42", id)
	}
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	a := newTestAuthenticator()
	access, refresh, err := a.GenerateTokens(7)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.ValidateAccessToken(refresh); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := a.ValidateRefreshToken(access); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	a := newTestAuthenticator()
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return issued }

	access, _, err := a.GenerateTokens(1)
	if err != nil {
		t.Fatal(err)
	}

	a.now = func() time.Time { return issued.Add(2 * time.Hour) }
	if _, err := a.ValidateAccessToken(access); err == nil {
		t.Error("expired token accepted")
	}
}

func TestForeignSecretRejected(t *testing.T) {
	other := NewJWTAuthenticator("someone-else", "refresh-secret", "taktivent", time.Hour, time.Hour)
	access, _, err := other.GenerateTokens(1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := newTestAuthenticator().ValidateAccessToken(access); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

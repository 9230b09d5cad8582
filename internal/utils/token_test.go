package utils

import (
	"errors"
	"testing"
	"time"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m, err := NewTokenManager("s3cret", "interviewme", 0)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := m.Issue("u1", "a@b.c", "user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	c, err := m.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Subject != "u1" || c.Email != "a@b.c" || c.Role != "user" {
		t.Errorf("claims = %+v", c)
	}
	if got := c.ExpiresAt.Sub(c.IssuedAt.Time); got != TokenTTL {
		t.Errorf("lifetime = %v, want %v", got, TokenTTL)
	}
}

func TestTokenManager_Rejects(t *testing.T) {
	m, _ := NewTokenManager("s3cret", "interviewme", time.Hour)
	other, _ := NewTokenManager("different", "interviewme", time.Hour)
	wrongIss, _ := NewTokenManager("s3cret", "someone-else", time.Hour)

	forged, _ := other.Issue("u1", "", "")
	foreign, _ := wrongIss.Issue("u1", "", "")

	expired, _ := NewTokenManager("s3cret", "interviewme", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _ := expired.Issue("u1", "", "")

	for name, raw := range map[string]string{
		"garbage":      "not.a.jwt",
		"wrong secret": forged,
		"wrong issuer": foreign,
		"expired":      stale,
	} {
		if _, err := m.Parse(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("%s: Parse err = %v, want ErrInvalidToken", name, err)
		}
	}
}

func TestNewTokenManager_RequiresSecret(t *testing.T) {
	if _, err := NewTokenManager("", "", 0); err == nil {
		t.Error("NewTokenManager with empty secret: want error")
	}
}

package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/raushankrgupta/vape-catalog-scraper/config"
)

func withSecret(t *testing.T, secret string) {
	t.Helper()
	previous := config.JWTSecret
	config.JWTSecret = secret
	t.Cleanup(func() { config.JWTSecret = previous })
}

func TestTokenRoundTrip(t *testing.T) {
	withSecret(t, "test-secret")

	token, err := GenerateToken("catalog-sync", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	subject, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if subject != "catalog-sync" {
		t.Errorf("subject = %q", subject)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	withSecret(t, "test-secret")
	expired, err := GenerateToken("catalog-sync", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	withSecret(t, "other-secret")
	foreign, err := GenerateToken("catalog-sync", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	withSecret(t, "test-secret")
	for name, token := range map[string]string{
		"expired":      expired,
		"wrong secret": foreign,
		"garbage":      "not.a.token",
	} {
		if _, err := ValidateToken(token); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestTokenRequiresSecret(t *testing.T) {
	withSecret(t, "")
	if _, err := GenerateToken("x", time.Hour); !errors.Is(err, ErrMissingJWTSecret) {
		t.Errorf("GenerateToken: expected ErrMissingJWTSecret, got %v", err)
	}
	if _, err := ValidateToken("x"); !errors.Is(err, ErrMissingJWTSecret) {
		t.Errorf("ValidateToken: expected ErrMissingJWTSecret, got %v", err)
	}
}

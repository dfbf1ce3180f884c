package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/dotoole/photofolio-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:          "test-secret",
		Issuer:          "photofolio",
		SessionTTLHours: 168,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now())
	if err != nil {
		t.Fatalf("MintSessionToken: %v", err)
	}

	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}
	if claims.Subject != "admin" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
}

func TestTokenWithinWindowIsValid(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	sixDaysAgo := time.Now().Add(-6 * 24 * time.Hour)
	token, err := MintSessionToken(cfg, sixDaysAgo)
	if err != nil {
		t.Fatalf("MintSessionToken: %v", err)
	}
	if _, err := ParseSessionToken(cfg, token); err != nil {
		t.Fatalf("six-day-old token should verify: %v", err)
	}
}

func TestTokenPastWindowIsRejected(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	eightDaysAgo := time.Now().Add(-8 * 24 * time.Hour)
	token, err := MintSessionToken(cfg, eightDaysAgo)
	if err != nil {
		t.Fatalf("MintSessionToken: %v", err)
	}
	if _, err := ParseSessionToken(cfg, token); err == nil {
		t.Fatalf("eight-day-old token should be rejected")
	}
}

func TestTamperedTokenIsRejected(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := MintSessionToken(cfg, time.Now())
	if err != nil {
		t.Fatalf("MintSessionToken: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape")
	}
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]
	if _, err := ParseSessionToken(cfg, tampered); err == nil {
		t.Fatalf("tampered signature should be rejected")
	}
}

func TestMintRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := MintSessionToken(config.JWTConfig{SessionTTLHours: 168}, time.Now()); err == nil {
		t.Fatalf("expected error without secret")
	}
}

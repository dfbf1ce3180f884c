package security_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/dotoole/photofolio-backend/pkg/security"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := security.HashPassword("very-secure-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	if hash == "" {
		t.Fatal("HashPassword returned empty string")
	}

	ok, err := security.VerifyPassword("very-secure-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for valid hash: %v", err)
	}
	if !ok {
		t.Fatal("VerifyPassword failed for the correct password")
	}

	ok, err = security.VerifyPassword("bogus-password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword returned error for invalid password: %v", err)
	}
	if ok {
		t.Fatal("VerifyPassword returned true for incorrect password")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := security.HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestVerifyPasswordBadHash(t *testing.T) {
	if _, err := security.VerifyPassword("irrelevant", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestVerifyPasswordMissingParams(t *testing.T) {
	hash, err := security.HashPassword("very-secure-password")
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Fatalf("unexpected hash shape: %s", hash)
	}

	// Incomplete parameter sections must error, never reach argon2.IDKey.
	cases := map[string]string{
		"missing t and p": "m=65536",
		"missing p":       "m=65536,t=1",
		"missing m":       "t=1,p=2",
		"zero t":          "m=65536,t=0,p=2",
		"zero p":          "m=65536,t=1,p=0",
		"empty":           "",
	}
	for name, paramsPart := range cases {
		parts[3] = paramsPart
		encoded := strings.Join(parts, "$")
		if _, err := security.VerifyPassword("very-secure-password", encoded); !errors.Is(err, security.ErrInvalidHash) {
			t.Errorf("%s: expected ErrInvalidHash, got %v", name, err)
		}
	}
}

package validators

import (
	"bytes"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
)

type loginBody struct {
	Password string `json:"password" validate:"required"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(`{"password":"hunter2"}`))
	var dest loginBody
	if err := DecodeJSONBody(req, &dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest.Password != "hunter2" {
		t.Fatalf("unexpected decode %+v", dest)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(`{"password":"x","extra":true}`))
	var dest loginBody
	err := DecodeJSONBody(req, &dest)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyRejectsMissingRequired(t *testing.T) {
	req := httptest.NewRequest("POST", "/login", bytes.NewBufferString(`{}`))
	var dest loginBody
	err := DecodeJSONBody(req, &dest)
	if err == nil {
		t.Fatal("expected error for missing password")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  hello  ", 0); got != "hello" {
		t.Fatalf("unexpected %q", got)
	}
	if got := SanitizeString("abcdef", 3); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
}

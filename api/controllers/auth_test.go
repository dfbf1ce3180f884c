package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dotoole/photofolio-backend/internal/auth"
	"github.com/dotoole/photofolio-backend/pkg/config"
	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
)

type stubAuthService struct {
	result       *auth.LoginResult
	err          error
	lastPassword string
}

func (s *stubAuthService) Login(_ context.Context, password string) (*auth.LoginResult, error) {
	s.lastPassword = password
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == config.AdminCookieName {
			return c
		}
	}
	return nil
}

func TestLoginSetsSessionCookie(t *testing.T) {
	expires := time.Now().Add(7 * 24 * time.Hour)
	svc := &stubAuthService{result: &auth.LoginResult{Token: "signed-token", ExpiresAt: expires}}
	handler := Login(svc, true, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.lastPassword != "hunter2" {
		t.Fatalf("password not forwarded, got %q", svc.lastPassword)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected session cookie")
	}
	if cookie.Value != "signed-token" || !cookie.HttpOnly || !cookie.Secure {
		t.Fatalf("unexpected cookie attributes: %+v", cookie)
	}

	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data["token"] != "signed-token" {
		t.Fatalf("expected token in body, got %v", envelope.Data)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid password")}
	handler := Login(svc, false, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
	if sessionCookie(rec) != nil {
		t.Fatal("failed login must not set a cookie")
	}
}

func TestLoginMissingPassword(t *testing.T) {
	handler := Login(&stubAuthService{}, false, nil)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestLogoutExpiresCookie(t *testing.T) {
	handler := Logout(false)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatal("expected clearing cookie")
	}
	if cookie.Value != "" || cookie.MaxAge >= 0 {
		t.Fatalf("cookie must be expired: %+v", cookie)
	}
}

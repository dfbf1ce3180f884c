package controllers

import (
	"net/http"
	"time"

	"github.com/dotoole/photofolio-backend/api/responses"
	"github.com/dotoole/photofolio-backend/api/validators"
	"github.com/dotoole/photofolio-backend/internal/auth"
	"github.com/dotoole/photofolio-backend/pkg/config"
	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
	"github.com/dotoole/photofolio-backend/pkg/logger"
)

type loginRequest struct {
	Password string `json:"password" validate:"required"`
}

// Login verifies the admin password and sets the session cookie. The token is
// also returned in the body for non-browser clients.
func Login(svc auth.Service, secureCookie bool, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     config.AdminCookieName,
			Value:    result.Token,
			Path:     "/",
			Expires:  result.ExpiresAt,
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		})

		responses.WriteSuccess(w, map[string]any{
			"token":      result.Token,
			"expires_at": result.ExpiresAt.UTC().Format(time.RFC3339),
		})
	}
}

// Logout clears the session cookie. There is no server-side session to revoke.
func Logout(secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     config.AdminCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		responses.WriteSuccess(w, map[string]string{"status": "logged out"})
	}
}

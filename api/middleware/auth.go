package middleware

import (
	"net/http"
	"strings"

	"github.com/dotoole/photofolio-backend/api/responses"
	pkgauth "github.com/dotoole/photofolio-backend/pkg/auth"
	"github.com/dotoole/photofolio-backend/pkg/config"
	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
	"github.com/dotoole/photofolio-backend/pkg/logger"
)

// RequireAuth gates the admin surface. The session token is read from the
// admin cookie; a bearer header is accepted as a fallback for API clients.
func RequireAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			if _, err := pkgauth.ParseSessionToken(cfg, token); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session"))
				return
			}

			ctx := WithAdmin(r.Context())
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{"admin": true})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth marks the context as admin when a valid session is present but
// lets the request through either way. Read endpoints use it to widen their
// visibility filter for the console.
func OptionalAuth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			if _, err := pkgauth.ParseSessionToken(cfg, token); err != nil {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAdmin(r.Context())))
		})
	}
}

func sessionToken(r *http.Request) string {
	if cookie, err := r.Cookie(config.AdminCookieName); err == nil {
		if value := strings.TrimSpace(cookie.Value); value != "" {
			return value
		}
	}
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}

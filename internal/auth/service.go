package auth

import (
	"context"
	"fmt"
	"time"

	pkgauth "github.com/dotoole/photofolio-backend/pkg/auth"
	"github.com/dotoole/photofolio-backend/pkg/config"
	pkgerrors "github.com/dotoole/photofolio-backend/pkg/errors"
	"github.com/dotoole/photofolio-backend/pkg/security"
)

// LoginResult carries the freshly minted session token and its lifetime, so
// the controller can shape the cookie.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// Service verifies the admin password and mints sessions.
type Service interface {
	Login(ctx context.Context, password string) (*LoginResult, error)
}

type service struct {
	jwt   config.JWTConfig
	admin config.AdminConfig
	now   func() time.Time
}

// NewService constructs the auth service from server configuration.
func NewService(jwt config.JWTConfig, admin config.AdminConfig) (Service, error) {
	if jwt.Secret == "" {
		return nil, fmt.Errorf("jwt secret required")
	}
	return &service{jwt: jwt, admin: admin, now: time.Now}, nil
}

// Login checks the password against the configured argon2id hash. The hash
// comparison is constant time. A wrong password is 401; a missing or
// malformed configured hash is server misconfiguration and surfaces as 500.
func (s *service) Login(_ context.Context, password string) (*LoginResult, error) {
	if s.admin.PasswordHash == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "admin password not configured")
	}
	if password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid password")
	}

	ok, err := security.VerifyPassword(password, s.admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid password")
	}

	now := s.now()
	token, err := pkgauth.MintSessionToken(s.jwt, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.jwt.SessionTTL()),
	}, nil
}

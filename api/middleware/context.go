package middleware

import "context"

type contextKey string

const ctxAdmin contextKey = "admin"

// IsAdmin reports whether the request carries a verified admin session.
func IsAdmin(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, ok := ctx.Value(ctxAdmin).(bool)
	return ok && v
}

// WithAdmin marks the context as carrying a verified admin session.
func WithAdmin(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAdmin, true)
}

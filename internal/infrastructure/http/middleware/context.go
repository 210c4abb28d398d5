package middleware

import (
	"context"

	"github.com/diego64/help-me-sub001/internal/application/ports"
)

type contextKey string

const principalContextKey contextKey = "principal"

// WithPrincipal injects the verified principal into the context.
func WithPrincipal(ctx context.Context, p *ports.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, p)
}

// PrincipalFromContext returns the request's principal, or nil when the
// request did not pass the auth gate.
func PrincipalFromContext(ctx context.Context) *ports.Principal {
	v := ctx.Value(principalContextKey)
	if v == nil {
		return nil
	}
	p, _ := v.(*ports.Principal)
	return p
}

package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

type claimsKey struct{}

// WithClaims returns a context carrying verified token claims.
func WithClaims(ctx context.Context, claims jwt.MapClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored in ctx, or nil.
func ClaimsFromContext(ctx context.Context) jwt.MapClaims {
	claims, _ := ctx.Value(claimsKey{}).(jwt.MapClaims)
	return claims
}

// GetClaim returns the named string claim from ctx, or "" when the
// context carries no claims or the claim is absent.
func GetClaim(ctx context.Context, name string) string {
	claims := ClaimsFromContext(ctx)
	if claims == nil {
		return ""
	}
	value, _ := claims[name].(string)
	return value
}

package main

import (
	"context"
	"net/http"

	"github.com/PaulBabatuyi/roomBooking-api/internal/auth"
)

// context key type for storing auth claims in context
type authContextKey struct{}

// getClaimsFromContext extracts auth claims from the context, if present.
func getClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(authContextKey{}).(*auth.Claims)
	return c, ok && c != nil
}

// requireToken verifies the token cookie and attaches its claims to the request
// context. Requests without a cookie get 401 unauthenticated; a bad or expired
// token gets 401 invalid token.
func requireToken(j *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := j.VerifyToken(auth.TokenFromRequest(r))
			if err != nil {
				writeServiceError(w, r, "verify token", err)
				return
			}
			ctx := context.WithValue(r.Context(), authContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

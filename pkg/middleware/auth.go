package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Zin-Mg-Nyunt/shopping/pkg/auth"
	"github.com/Zin-Mg-Nyunt/shopping/pkg/response"
)

type claimsKey struct{}

// Auth requires a valid Bearer token and stores the claims in the request
// context for UserIDFromCtx.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := bearerClaims(r)
		if !ok {
			response.Unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
	})
}

// OptionalAuth stores claims in the context when a valid token is present
// but lets anonymous requests through. Cart routes use this so guests can
// shop before signing in.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := bearerClaims(r); ok {
			r = r.WithContext(withClaims(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

func bearerClaims(r *http.Request) (*auth.Claims, bool) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if token == "" {
		return nil, false
	}
	claims, err := auth.ValidateToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

func withClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

func claimsFromCtx(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*auth.Claims)
	return c, ok
}

// UserIDFromCtx returns the authenticated user's ID, or 0 for guests.
func UserIDFromCtx(ctx context.Context) uint {
	if c, ok := claimsFromCtx(ctx); ok {
		return c.UserID
	}
	return 0
}

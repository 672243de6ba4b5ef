package middleware

import (
	"context"
	"net/http"
	"strings"
)

// ContextKey is a type for context keys
type ContextKey string

// ContextKeyAccessToken is the context key for the caller's access token
const ContextKeyAccessToken ContextKey = "access_token"

// RequireBearer returns middleware that extracts a Bearer access token and
// rejects requests without one. Verification against the identity backend
// happens in the handler, where the policy for an unconfigured backend is
// explicit.
func RequireBearer() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, `{"error":"missing authorization header"}`, http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || parts[1] == "" {
				http.Error(w, `{"error":"invalid authorization header format"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyAccessToken, parts[1])
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAccessToken returns the access token from context
func GetAccessToken(ctx context.Context) string {
	if token, ok := ctx.Value(ContextKeyAccessToken).(string); ok {
		return token
	}
	return ""
}

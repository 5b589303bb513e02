package middleware

import (
	"context"
	"net/http"
	"strings"

	"kiwihr/internal/domain/auth"
)

type ctxKey string

const (
	ctxKeyIdentity  ctxKey = "identity"
	ctxKeySessionID ctxKey = "session_id"
)

// Auth restores the identity for a bearer token. Requests without a valid
// token continue anonymous; the rbac middleware and handlers decide what an
// anonymous request may reach.
func Auth(sessions *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			identity, sessionID, ok := sessions.IdentityForToken(parts[1])
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyIdentity, identity)
			ctx = context.WithValue(ctx, ctxKeySessionID, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity returns the authenticated identity, or nil for anonymous
// requests. A nil identity denies every evaluator check.
func GetIdentity(ctx context.Context) *auth.Identity {
	if identity, ok := ctx.Value(ctxKeyIdentity).(*auth.Identity); ok {
		return identity
	}
	return nil
}

func GetSessionID(ctx context.Context) string {
	if sessionID, ok := ctx.Value(ctxKeySessionID).(string); ok {
		return sessionID
	}
	return ""
}

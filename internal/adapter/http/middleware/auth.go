package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dlshad/drawerledger/internal/domain"
	"github.com/dlshad/drawerledger/internal/infrastructure/auth"
	"github.com/dlshad/drawerledger/internal/infrastructure/metrics"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// ActorContextKey is the context key for the authenticated actor
	ActorContextKey ContextKey = "actor"
)

// AuthMiddleware creates an authentication middleware. Metrics may be nil.
func AuthMiddleware(jwtManager *auth.JWTManager, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				recordAuth(m, false, "missing_header")
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				recordAuth(m, false, "malformed_header")
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				recordAuth(m, false, "invalid_token")
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			recordAuth(m, true, "")

			actor := domain.Actor{
				ID:   claims.UserID,
				Role: claims.Role,
			}

			ctx := context.WithValue(r.Context(), ActorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// StaticActor injects a fixed actor into every request. Used when token
// authentication is disabled.
func StaticActor(actor domain.Actor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), ActorContextKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole creates a middleware that checks for a minimum role.
func RequireRole(minRole domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			switch minRole {
			case domain.RoleAdmin:
				if actor.Role != domain.RoleAdmin {
					http.Error(w, "insufficient permissions", http.StatusForbidden)
					return
				}
			case domain.RoleOperator:
				if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleOperator {
					http.Error(w, "insufficient permissions", http.StatusForbidden)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ActorFromContext extracts the authenticated actor from context.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(ActorContextKey).(domain.Actor)
	return actor, ok
}

func recordAuth(m *metrics.Metrics, ok bool, reason string) {
	if m == nil {
		return
	}

	if ok {
		m.AuthAttempts.WithLabelValues("success").Inc()
		return
	}

	m.AuthAttempts.WithLabelValues("failure").Inc()
	m.AuthFailures.WithLabelValues(reason).Inc()
}

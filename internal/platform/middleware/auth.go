package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"dynaform/internal/identity"
	"dynaform/internal/platform/metrics"
)

// TokenVerifier defines the interface for validating bearer tokens
type TokenVerifier interface {
	VerifyToken(tokenString string) (*TokenClaims, error)
}

// TokenClaims represents the claims we expect from the token verifier
type TokenClaims struct {
	Subject string
	Role    string
}

// PrincipalResolver turns verified token claims into a request principal.
// The resolver owns the role check: a token whose role claim is not among
// the user's currently granted roles resolves to anonymous.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, subject string, role identity.Role) (identity.Principal, error)
}

// Authenticate is the gate in front of every route. It never rejects a
// request: missing, malformed, expired, or stale-role tokens all degrade
// to the anonymous principal, and authorization stays with each endpoint.
func Authenticate(verifier TokenVerifier, resolver PrincipalResolver, m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			principal := identity.Anonymous()

			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			if tokenString, ok := strings.CutPrefix(authHeader, bearerPrefix); ok {
				principal = resolve(ctx, verifier, resolver, m, logger, tokenString)
			}

			ctx = identity.WithPrincipal(ctx, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolve(ctx context.Context, verifier TokenVerifier, resolver PrincipalResolver, m *metrics.Metrics, logger *slog.Logger, tokenString string) identity.Principal {
	requestID := GetRequestID(ctx)

	claims, err := verifier.VerifyToken(tokenString)
	if err != nil {
		logger.WarnContext(ctx, "bearer token rejected, continuing anonymous",
			"error", err.Error(),
			"request_id", requestID,
		)
		m.AuthFailed.Inc()
		return identity.Anonymous()
	}

	principal, err := resolver.ResolvePrincipal(ctx, claims.Subject, identity.Role(claims.Role))
	if err != nil {
		logger.WarnContext(ctx, "principal resolution failed, continuing anonymous",
			"subject", claims.Subject,
			"error", err.Error(),
			"request_id", requestID,
		)
		m.AuthFailed.Inc()
		return identity.Anonymous()
	}
	if !principal.IsAuthenticated() {
		m.AuthFailed.Inc()
		return identity.Anonymous()
	}

	m.AuthSucceeded.Inc()
	return principal
}

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	h "colloquium/internal/delivery/http/helpers"
	"colloquium/internal/domain"
)

type contextKey string

const adminKey contextKey = "admin"

// accessDeniedMessage is shown when a signed-in principal is not on the
// allow-list.
const accessDeniedMessage = "Access Denied: Your email is not authorized to access this admin panel."

// SetAdmin returns a context with the authenticated admin claims set.
func SetAdmin(ctx context.Context, claims *domain.TokenClaims) context.Context {
	return context.WithValue(ctx, adminKey, claims)
}

// AdminFromContext returns the authenticated admin claims, if present.
func AdminFromContext(ctx context.Context) (*domain.TokenClaims, bool) {
	claims, ok := ctx.Value(adminKey).(*domain.TokenClaims)
	return claims, ok
}

// RequireAuth returns a wrapper that validates the Bearer token, re-checks
// the allow-list, and sets the admin claims in the request context.
// Authorization is re-evaluated on every request, not only at login: a valid
// token whose email has been removed from the allow-list is rejected with 403.
func RequireAuth(verifier domain.TokenVerifier, allowedEmails []string, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedEmails))
	for _, e := range allowedEmails {
		allowed[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing authorization header")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(auth, prefix) {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid authorization format")
				return
			}
			token := strings.TrimSpace(auth[len(prefix):])
			if token == "" {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "missing token")
				return
			}
			claims, err := verifier.Verify(token)
			if err != nil {
				h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
				return
			}
			if _, ok := allowed[strings.ToLower(claims.Email)]; !ok {
				logger.Warn("admin not on allow-list", "email", claims.Email)
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, accessDeniedMessage)
				return
			}
			r = r.WithContext(SetAdmin(r.Context(), claims))
			next(w, r)
		}
	}
}

package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/felixgeelhaar/fakturering/internal/identity/token"
	"github.com/felixgeelhaar/fakturering/pkg/observability"
)

// TokenVerifier validates a bearer token.
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// RequireBearer rejects requests without a valid bearer token and puts the
// token subject on the context for observability.UserIDFromContext.
func RequireBearer(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="fakturering"`)
				writeError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				logger.DebugContext(r.Context(), "rejected bearer token", "error", err)
				w.Header().Set("WWW-Authenticate", `Bearer realm="fakturering", error="invalid_token"`)
				writeError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := observability.WithUserID(r.Context(), claims.Identity())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, raw, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}

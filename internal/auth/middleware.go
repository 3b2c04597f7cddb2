package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-admin-go/internal/result"
)

// Middleware rejects requests without a valid admin token and stores the
// token's employee id in the request context for downstream handlers.
func Middleware(cfg Config, issuer *Issuer, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r, cfg.AdminTokenName)
			if token == "" {
				result.Write(w, http.StatusUnauthorized, result.Error("not logged in"))
				return
			}
			claims, err := issuer.Verify(token, cfg.AdminSecret)
			if err != nil {
				logger.Debugw("token rejected", "path", r.URL.Path, "err", err)
				result.Write(w, http.StatusUnauthorized, result.Error("not logged in"))
				return
			}
			id, err := EmployeeID(claims)
			if err != nil {
				logger.Debugw("token without employee id", "path", r.URL.Path, "err", err)
				result.Write(w, http.StatusUnauthorized, result.Error("not logged in"))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithEmployeeID(r.Context(), id)))
		})
	}
}

// tokenFromRequest reads the configured header, falling back to a bearer
// Authorization header.
func tokenFromRequest(r *http.Request, header string) string {
	if v := strings.TrimSpace(r.Header.Get(header)); v != "" {
		return v
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > len("bearer ") && strings.EqualFold(auth[:len("bearer ")], "bearer ") {
		return strings.TrimSpace(auth[len("bearer "):])
	}
	return ""
}

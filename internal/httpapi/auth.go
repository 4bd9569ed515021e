package httpapi

import (
	"context"
	"net/http"
	"strings"
)

type authContextKey string

const subjectKey authContextKey = "subject"

// RequireAuth validates a bearer token on every request except health
// checks. Optional: a deployment with no token issuance needs never
// set Config.RequireAuth.
func (s *Server) RequireAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "bearer token required")
				return
			}

			claims, err := s.auth.Validate(token)
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

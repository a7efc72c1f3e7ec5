package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/odontoflow/clinic-api/internal/access"
	"github.com/odontoflow/clinic-api/internal/apperror"
	"github.com/odontoflow/clinic-api/internal/auth"
)

type contextKey string

const callerKey contextKey = "caller"

// BearerAuth verifies the Authorization header and stores the caller's
// access context for handlers downstream.
func BearerAuth(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				apperror.WriteJSON(w, apperror.New(apperror.Authentication, "token não fornecido"))
				return
			}
			caller, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				apperror.WriteJSON(w, apperror.New(apperror.Authentication, "token inválido"))
				return
			}
			ctx := context.WithValue(r.Context(), callerKey, caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerFromContext returns the authenticated caller, if any.
func CallerFromContext(ctx context.Context) (access.Context, bool) {
	caller, ok := ctx.Value(callerKey).(access.Context)
	return caller, ok
}

// RequireRole rejects callers whose role is not in the allow list.
func RequireRole(roles ...access.Role) func(http.Handler) http.Handler {
	allow := map[access.Role]struct{}{}
	for _, role := range roles {
		allow[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, ok := CallerFromContext(r.Context())
			if !ok {
				apperror.WriteJSON(w, apperror.New(apperror.Authentication, "token não fornecido"))
				return
			}
			if _, allowed := allow[caller.Role]; !allowed {
				apperror.WriteJSON(w, apperror.New(apperror.Authorization, "acesso negado"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"net/http"

	"github.com/bankbroker/backend/internal/models"
)

// AdminOnly rejects requests whose token does not carry the ADMIN role. It
// must run after JWTMiddleware.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := GetRole(r.Context())
		if !ok || role != models.RoleAdmin {
			http.Error(w, "access denied", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/phraewchuthamat/task-board-api/services"
)

type contextKey string

const authUserContextKey contextKey = "authUser"

// AuthUser is the verified identity attached to the request context.
type AuthUser struct {
	ID       string
	Username string
}

// AuthMiddleware gates every board route behind a valid session token.
type AuthMiddleware struct {
	authService *services.AuthService
}

func NewAuthMiddleware(authService *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// Auth rejects requests without a valid session bearer token. An absent
// token is 401; a present but invalid, expired or wrong-kind credential is
// 403.
func (m *AuthMiddleware) Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Get token from Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeError(w, http.StatusUnauthorized, "Access denied. Please login first.")
			return
		}

		// Whatever follows the scheme is the credential; a scheme with
		// nothing after it counts as no token at all.
		authParts := strings.Split(authHeader, " ")
		if len(authParts) < 2 || authParts[1] == "" {
			writeError(w, http.StatusUnauthorized, "Access denied. Please login first.")
			return
		}

		claims, err := m.authService.VerifySessionToken(authParts[1])
		if err != nil {
			writeError(w, http.StatusForbidden, "Invalid or expired token.")
			return
		}

		ctx := context.WithValue(r.Context(), authUserContextKey, AuthUser{
			ID:       claims.UserID,
			Username: claims.Username,
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// userFromContext returns the authenticated identity set by Auth.
func userFromContext(r *http.Request) (AuthUser, bool) {
	user, ok := r.Context().Value(authUserContextKey).(AuthUser)
	return user, ok
}

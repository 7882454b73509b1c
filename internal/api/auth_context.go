package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/dojolog/dojolog-server/internal/service"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "sid"

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

const (
	userIDKey     ctxKey = "userID"
	sessionIDKey  ctxKey = "sessionID"
	clientInfoKey ctxKey = "clientInfo"
)

// GetUserID returns the authenticated user ID from context.
// Returns 401 error if user is not authenticated.
func GetUserID(ctx context.Context) (string, error) {
	userID := OptionalUserID(ctx)
	if userID == "" {
		return "", huma.Error401Unauthorized("Authentication required")
	}
	return userID, nil
}

// OptionalUserID returns the authenticated user ID, or "" for anonymous requests.
func OptionalUserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}

func sessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

func clientInfo(ctx context.Context) service.ClientInfo {
	info, _ := ctx.Value(clientInfoKey).(service.ClientInfo)
	return info
}

// sessionMiddleware resolves the session cookie and stores the user and session IDs in context.
// Requests without a valid session continue anonymously; handlers use GetUserID to require one.
func sessionMiddleware(auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), clientInfoKey, service.ClientInfo{
				IPAddress: getClientIP(r),
				UserAgent: r.UserAgent(),
			})

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			user, session, err := auth.Authenticate(ctx, cookie.Value)
			if err != nil {
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ctx = context.WithValue(ctx, userIDKey, user.ID)
			ctx = context.WithValue(ctx, sessionIDKey, session.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"projectmonitor/models"
	service "projectmonitor/services"
	"projectmonitor/utils"

	"go.uber.org/zap"
)

// SessionCookieName carries the signed session token in browser requests.
const SessionCookieName = "session_token"

type contextKey string

const SessionContextKey contextKey = "session"

// Authenticate resolves the caller's session and stores it in the request
// context. Requests without a valid session are answered with 401.
func Authenticate(auth service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				utils.HandleMessageResponse(w, "Authentication required", http.StatusUnauthorized)
				return
			}

			session, err := auth.Resolve(r.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					ClearSessionCookie(w, r.TLS != nil)
					utils.HandleMessageResponse(w, "Invalid or expired session", http.StatusUnauthorized)
					return
				}
				logger.Error("session lookup failed", zap.Error(err))
				utils.HandleMessageResponse(w, "Failed to verify session", http.StatusInternalServerError)
				return
			}

			ctx := WithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSessionFromContext(ctx context.Context) *models.Session {
	if session, ok := ctx.Value(SessionContextKey).(*models.Session); ok {
		return session
	}
	return nil
}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, SessionContextKey, session)
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get("Authorization")
	if token := strings.TrimPrefix(authHeader, "Bearer "); token != authHeader {
		return strings.TrimSpace(token)
	}
	return ""
}

func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

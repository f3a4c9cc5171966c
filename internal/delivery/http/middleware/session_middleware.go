package middleware

import (
	"context"
	"net/http"
	"time"

	"whiskd-backend/internal/domain"
	"whiskd-backend/pkg/logger"
	"whiskd-backend/pkg/utils"

	"github.com/google/uuid"
)

// NewSessionMiddleware resolves the browser session from its signed cookie, issuing a new
// session when the cookie is missing, expired or forged.
func NewSessionMiddleware(ttl time.Duration, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			sessionID := ""
			if cookie, err := r.Cookie(utils.SessionCookieName); err == nil {
				if sid, err := utils.ValidateSessionToken(cookie.Value); err == nil {
					sessionID = sid
				}
			}

			if sessionID == "" {
				sessionID = uuid.New().String()
				token, err := utils.GenerateSessionToken(sessionID, ttl)
				if err != nil {
					logger.Error().Err(err).Msg("Failed to sign session token")
					utils.WriteError(w, http.StatusInternalServerError, "Internal Server Error")
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     utils.SessionCookieName,
					Value:    token,
					Path:     "/",
					MaxAge:   int(ttl.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := context.WithValue(r.Context(), domain.SessionContextKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

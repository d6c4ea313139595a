package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/inovelapp/inovel-server/internal/domain"
	"github.com/inovelapp/inovel-server/internal/service"
)

// SessionCookieName is the cookie that carries the session token for
// browser clients.
const SessionCookieName = "inovel_session"

// ctxKey is the type for context keys to avoid collisions.
type ctxKey string

// sessionKey is the context key for the resolved session.
const sessionKey ctxKey = "session"

// sessionFromContext returns the session attached by sessionMiddleware,
// or the anonymous session.
func sessionFromContext(ctx context.Context) domain.Session {
	if s, ok := ctx.Value(sessionKey).(domain.Session); ok {
		return s
	}
	return domain.AnonymousSession()
}

func withSession(ctx context.Context, s domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// sessionToken reads the token from the Authorization header, falling back
// to the session cookie.
func sessionToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(h[len("Bearer "):])
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// sessionMiddleware resolves the request's session token and stores the
// session in context. Missing or invalid tokens continue as anonymous;
// handlers that need a login reject those requests themselves.
func sessionMiddleware(sessions *service.SessionService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := sessions.Resolve(token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(r.Context(), session)))
		})
	}
}

// sessionCookie builds the cookie that carries token until expiresAt.
func sessionCookie(token string, expiresAt time.Time, secure bool) http.Cookie {
	return http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// clearedSessionCookie expires the session cookie in the browser.
func clearedSessionCookie(secure bool) http.Cookie {
	return http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}

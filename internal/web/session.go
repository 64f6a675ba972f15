package web

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/JonMunkholm/keydrift/internal/logging"
)

const (
	sessionCookie = "keydrift_session"
	profileCookie = "keydrift_profile"

	// profileMaxAge keeps the preference namespace for a year.
	profileMaxAge = 365 * 24 * 60 * 60
)

// sessionMiddleware attaches a comparison session to every request. The
// session cookie names in-memory state and is recreated when the server no
// longer knows it; the profile cookie names the stored preferences and
// outlives sessions.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile := ""
		if c, err := r.Cookie(profileCookie); err == nil {
			if _, perr := uuid.Parse(c.Value); perr == nil {
				profile = c.Value
			}
		}
		if profile == "" {
			profile = uuid.NewString()
			http.SetCookie(w, s.cookie(profileCookie, profile, profileMaxAge))
		}

		id := ""
		if c, err := r.Cookie(sessionCookie); err == nil && s.service.HasSession(c.Value) {
			id = c.Value
		}
		if id == "" {
			ctx := WithRequestMetadata(r.Context(), r)
			id = s.service.NewSession(ctx, profile)
			http.SetCookie(w, s.cookie(sessionCookie, id, 0))
		}

		ctx := logging.ContextWithSession(r.Context(), id)
		ctx = WithRequestMetadata(ctx, r)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cfg.Security.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}

// sessionID returns the session attached by sessionMiddleware.
func sessionID(r *http.Request) string {
	return logging.SessionFromContext(r.Context())
}

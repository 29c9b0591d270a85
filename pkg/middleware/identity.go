package middleware

import (
	"net/http"
	"strings"
)

const (
	UserIDHeader    = "X-User-ID"
	SessionIDHeader = "X-Session-ID"
	SessionCookie   = "sid"
)

// IdentityFromHeaders copies the caller identity set by the authenticating gateway into
// the request context. Requests without identity headers continue anonymously.
func IdentityFromHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := Identity{
				UserID:    strings.TrimSpace(r.Header.Get(UserIDHeader)),
				SessionID: strings.TrimSpace(r.Header.Get(SessionIDHeader)),
			}
			if identity.SessionID == "" {
				if c, err := r.Cookie(SessionCookie); err == nil {
					identity.SessionID = c.Value
				}
			}

			if identity.IsZero() {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), identity)))
		})
	}
}

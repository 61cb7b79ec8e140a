package middleware

import (
	"net/http"
	"strings"
)

const (
	// SessionCookieName is set at login and cleared at logout.
	SessionCookieName = "session"

	publicLandingPath        = "/"
	authenticatedLandingPath = "/dashboard"
	protectedPrefix          = "/dashboard"
)

// SessionGuard gates page routes on the presence of the session cookie and
// runs ahead of every handler. Presence is all it checks: the cookie's
// integrity and expiry are the concern of the auth flow that issued it, so a
// fabricated cookie gets past the guard but fails at the first authenticated
// API call.
//
//   - protected path without a cookie: redirect to the public landing page
//   - public landing page with a cookie: redirect to the dashboard
//   - everything else passes through untouched
func SessionGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := r.Cookie(SessionCookieName)
		hasSession := err == nil

		path := r.URL.Path
		if strings.HasPrefix(path, protectedPrefix) && !hasSession {
			http.Redirect(w, r, publicLandingPath, http.StatusFound)
			return
		}
		if path == publicLandingPath && hasSession {
			http.Redirect(w, r, authenticatedLandingPath, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}

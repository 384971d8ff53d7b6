package middleware

import (
	"net/http"

	"github.com/dukerupert/rsvp/internal/auth"
	"github.com/dukerupert/rsvp/internal/session"
)

// RequireAdmin lets requests with a valid admin session through and
// redirects everyone else to the admin login page.
func RequireAdmin(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sessions.IsAdmin(w, r) {
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
				return
			}
			ctx := auth.WithAuth(r.Context(), auth.AuthContext{Admin: true})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireHost populates AuthContext from the host session cookie and
// redirects to the landing page when there is none.
func RequireHost(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := sessions.HostEmail(w, r)
			if email == "" {
				http.Redirect(w, r, "/", http.StatusSeeOther)
				return
			}
			ctx := auth.WithAuth(r.Context(), auth.AuthContext{HostEmail: email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

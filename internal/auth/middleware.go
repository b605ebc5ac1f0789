package auth

import (
	"net/http"

	"github.com/pharmacare/pharmacy-web/internal/shared"
)

// RequireSession sends requests without stored credentials to the login page.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.Token(r) == "" {
			http.Redirect(w, r, shared.LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectSignedIn sends signed-in users away from the login and
// registration pages.
func RedirectSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.Token(r) != "" {
			http.Redirect(w, r, HomePath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Home redirects / to the dashboard or the login page.
func Home(w http.ResponseWriter, r *http.Request) {
	if shared.Token(r) != "" {
		http.Redirect(w, r, HomePath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, shared.LoginPath, http.StatusSeeOther)
}

package shared

import (
	"errors"
	"net/http"

	"github.com/pharmacare/pharmacy-web/internal/apiclient"
)

// LoginPath is where signed-out users are sent.
const LoginPath = "/auth/login"

// SessionExpiredMessage is shown after the backend rejects the stored token.
const SessionExpiredMessage = "Session expired. Please login again."

// ExpireSession clears the stored credentials, moves the session to a new id
// so data cached for the old one is dropped on commit, queues the expiry
// notice and redirects to the login page.
func ExpireSession(w http.ResponseWriter, r *http.Request) {
	if sess := SessionFromContext(r.Context()); sess != nil {
		sess.ClearCredentials()
		sess.Renew()
		sess.AddFlash(FlashMessage{Kind: FlashWarning, Title: "Session Expired", Message: SessionExpiredMessage})
	}
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

// HandleBackendError answers the request for failures that end it outright.
// A rejected token expires the session; a permission failure flashes the
// backend message and redirects to fallback. It reports whether a response
// was written.
func HandleBackendError(w http.ResponseWriter, r *http.Request, err error, fallback string) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, apiclient.ErrUnauthorized):
		ExpireSession(w, r)
		return true
	case errors.Is(err, apiclient.ErrForbidden):
		RedirectWithFlash(w, r, fallback, FlashError, "Access Denied", apiclient.Message(err))
		return true
	default:
		return false
	}
}

// Token returns the bearer token stored on the request session.
func Token(r *http.Request) string {
	return SessionFromContext(r.Context()).Token()
}

// CurrentUser returns the user info stored on the request session.
func CurrentUser(r *http.Request) (UserInfo, bool) {
	_, info, ok := SessionFromContext(r.Context()).Credentials()
	return info, ok
}

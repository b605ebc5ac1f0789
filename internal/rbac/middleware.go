package rbac

import (
	"log/slog"
	"net/http"

	"github.com/pharmacare/pharmacy-web/internal/shared"
)

// AccessDeniedMessage is flashed when a screen is outside the user's role.
const AccessDeniedMessage = "Access denied. You do not have permission to perform this action."

// Middleware wires RBAC authorization helpers for HTTP handlers.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
	// Fallback receives users turned away, defaulting to the dashboard.
	Fallback string
}

// RequireAny ensures the current user has at least one of the required permissions.
func (m Middleware) RequireAny(perms ...string) func(http.Handler) http.Handler {
	normalized := normalizePermissions(perms)
	return m.guard(func(user shared.UserInfo) bool {
		return hasAnyPermission(m.service().EffectivePermissions(user.Role), normalized)
	})
}

func (m Middleware) guard(allow func(shared.UserInfo) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := shared.CurrentUser(r)
			if !ok {
				http.Redirect(w, r, shared.LoginPath, http.StatusSeeOther)
				return
			}
			if allow(user) {
				next.ServeHTTP(w, r)
				return
			}
			if m.Logger != nil {
				m.Logger.Warn("rbac denied", slog.String("path", r.URL.Path), slog.String("role", user.Role))
			}
			shared.RedirectWithFlash(w, r, m.fallback(), shared.FlashError, "Access Denied", AccessDeniedMessage)
		})
	}
}

func (m Middleware) service() *Service {
	if m.Service != nil {
		return m.Service
	}
	return NewService()
}

func (m Middleware) fallback() string {
	if m.Fallback != "" {
		return m.Fallback
	}
	return "/dashboard"
}

package profile

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pharmacare/pharmacy-web/internal/apiclient"
	pharmacyShared "github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	"github.com/pharmacare/pharmacy-web/internal/rbac"
	"github.com/pharmacare/pharmacy-web/internal/shared"
)

const (
	basePath     = "/profile"
	pageTemplate = "pages/profile.html"
	userTemplate = "pages/profile_user.html"
)

// PasswordChangedMessage is flashed on the login page after a password change.
const PasswordChangedMessage = "Your password has been updated successfully. Please sign in with your new password."

// Page is the data handed to the profile template.
type Page struct {
	Profile        Profile
	Form           Form
	Errors         shared.FieldErrors
	PasswordErrors shared.FieldErrors
	LoadError      string
	Greeting       string
	Now            time.Time
	CanViewUsers   bool
	Permissions    []string
}

// UserPage is the data for the admin user lookup.
type UserPage struct {
	Profile Profile
}

// Handler serves the profile screen.
type Handler struct {
	screen  *pharmacyShared.Screen
	service *Service
	rbac    rbac.Middleware
	now     func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(screen *pharmacyShared.Screen, service *Service, guard rbac.Middleware) *Handler {
	if guard.Service == nil {
		guard.Service = rbac.NewService()
	}
	if guard.Fallback == "" {
		guard.Fallback = basePath
	}
	return &Handler{screen: screen, service: service, rbac: guard, now: time.Now}
}

// MountRoutes registers profile routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.show)
	r.Post("/", h.update)
	r.Post("/password", h.changePassword)
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.PermUsersView))
		r.Get("/users", h.lookup)
		r.Get("/users/{id}", h.user)
	})
}

func (h *Handler) page(r *http.Request, p Profile) Page {
	now := h.now()
	page := Page{
		Profile:  p,
		Form:     Form{FullName: p.FullName, Email: p.Email},
		Greeting: Greeting(now),
		Now:      now,
	}
	if user, ok := shared.CurrentUser(r); ok {
		page.Permissions = h.rbac.Service.EffectivePermissions(user.Role)
		page.CanViewUsers = h.rbac.Service.Can(user.Role, rbac.PermUsersView)
	}
	return page
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Current(r.Context(), shared.Token(r))
	if shared.HandleBackendError(w, r, err, "/dashboard") {
		return
	}
	if err != nil {
		user, _ := shared.CurrentUser(r)
		page := h.page(r, FromUserInfo(user))
		page.LoadError = pharmacyShared.UserMessage(err)
		h.screen.Render(w, r, pageTemplate, "Profile", page, http.StatusOK)
		return
	}
	h.refreshSession(r, p)
	h.screen.Render(w, r, pageTemplate, "Profile", h.page(r, p), http.StatusOK)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	form := Form{FullName: r.PostFormValue("fullName"), Email: r.PostFormValue("email")}
	updated, err := h.service.Update(r.Context(), shared.Token(r), form)
	if err != nil {
		if shared.HandleBackendError(w, r, err, basePath) {
			return
		}
		user, _ := shared.CurrentUser(r)
		page := h.page(r, FromUserInfo(user))
		page.Form = form
		if fe, ok := shared.AsFieldErrors(err); ok {
			page.Errors = fe
			h.screen.Render(w, r, pageTemplate, "Profile", page, http.StatusUnprocessableEntity)
			return
		}
		page.Errors = shared.FieldErrors{"general": "Failed to update profile: " + pharmacyShared.UserMessage(err)}
		h.screen.Render(w, r, pageTemplate, "Profile", page, http.StatusBadRequest)
		return
	}

	if user, ok := shared.CurrentUser(r); ok {
		if updated.Username == "" {
			updated.Username = user.Username
		}
		if updated.Role == "" {
			updated.Role = user.Role
		}
	}
	h.refreshSession(r, updated)
	shared.RedirectWithFlash(w, r, basePath, shared.FlashSuccess, "Success", "Profile updated successfully!")
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	form := PasswordForm{
		CurrentPassword: r.PostFormValue("currentPassword"),
		NewPassword:     r.PostFormValue("newPassword"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
	}
	err := h.service.ChangePassword(r.Context(), shared.Token(r), form)
	if err != nil {
		if shared.HandleBackendError(w, r, err, basePath) {
			return
		}
		user, _ := shared.CurrentUser(r)
		page := h.page(r, FromUserInfo(user))
		if fe, ok := shared.AsFieldErrors(err); ok {
			page.PasswordErrors = fe
			h.screen.Render(w, r, pageTemplate, "Profile", page, http.StatusUnprocessableEntity)
			return
		}
		page.PasswordErrors = shared.FieldErrors{"general": passwordFailure(err)}
		h.screen.Render(w, r, pageTemplate, "Profile", page, http.StatusBadRequest)
		return
	}

	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.ClearCredentials()
	}
	shared.RedirectWithFlash(w, r, shared.LoginPath, shared.FlashSuccess, "Password Changed Successfully!", PasswordChangedMessage)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) {
	id, err := pharmacyShared.ParseID(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	http.Redirect(w, r, basePath+"/users/"+strconv.FormatInt(id, 10), http.StatusSeeOther)
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) {
	id, err := pharmacyShared.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	p, err := h.service.User(r.Context(), shared.Token(r), id)
	if err != nil {
		h.screen.LoadFailed(w, r, err, basePath, "User")
		return
	}
	h.screen.Render(w, r, userTemplate, p.DisplayName(), UserPage{Profile: p}, http.StatusOK)
}

func (h *Handler) refreshSession(r *http.Request, p Profile) {
	sess := shared.SessionFromContext(r.Context())
	token, _, ok := sess.Credentials()
	if !ok {
		return
	}
	sess.SetCredentials(token, p.UserInfo())
}

func passwordFailure(err error) string {
	if errors.Is(err, apiclient.ErrNetwork) {
		return "Failed to change password. Please try again."
	}
	return "Failed to change password: " + pharmacyShared.UserMessage(err)
}

// DisplayName prefers the full name and falls back to the username.
func (p Profile) DisplayName() string {
	return p.UserInfo().DisplayName()
}

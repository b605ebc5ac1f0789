package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/internal/view"
)

// HomePath is where signed-in users land.
const HomePath = "/dashboard"

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	templates      *view.Engine
	sessionManager *shared.SessionManager
	csrfManager    *shared.CSRFManager
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, templates *view.Engine, sessions *shared.SessionManager, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		service:        service,
		templates:      templates,
		sessionManager: sessions,
		csrfManager:    csrf,
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RedirectSignedIn)
		r.Get("/login", h.showLogin)
		r.Post("/login", h.handleLogin)
		r.Get("/register", h.showRegister)
		r.Post("/register", h.handleRegister)
	})
	r.Post("/logout", h.handleLogout)
}

type formPageData struct {
	Form   any
	Errors shared.FieldErrors
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name, title string, data formPageData, status int) {
	viewData := view.Page(r, h.csrfManager, title, data)
	if err := h.templates.RenderStatus(w, status, name, viewData); err != nil {
		h.logger.Error("render auth page", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/login.html", "Sign In", formPageData{Form: LoginForm{}}, http.StatusOK)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := LoginForm{
		UsernameOrEmail: r.PostFormValue("usernameOrEmail"),
		Password:        r.PostFormValue("password"),
	}
	creds, err := h.service.Login(r.Context(), form)
	if err != nil {
		form.Password = ""
		h.failed(w, r, "pages/login.html", "Sign In", form, err)
		return
	}
	h.signIn(w, r, creds, "Welcome back, "+creds.User.DisplayName())
}

func (h *Handler) showRegister(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "pages/register.html", "Create Account", formPageData{Form: RegisterForm{}}, http.StatusOK)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	form := RegisterForm{
		Username:     r.PostFormValue("username"),
		FullName:     r.PostFormValue("fullName"),
		Email:        r.PostFormValue("email"),
		Password:     r.PostFormValue("password"),
		AgreeToTerms: r.PostFormValue("agreeToTerms"),
	}
	creds, err := h.service.Register(r.Context(), form)
	if err != nil {
		form.Password = ""
		h.failed(w, r, "pages/register.html", "Create Account", form, err)
		return
	}
	h.signIn(w, r, creds, "Your account has been created")
}

func (h *Handler) failed(w http.ResponseWriter, r *http.Request, name, title string, form any, err error) {
	if fe, ok := shared.AsFieldErrors(err); ok {
		h.render(w, r, name, title, formPageData{Form: form, Errors: fe}, http.StatusUnprocessableEntity)
		return
	}
	msg := InvalidCredentialsMessage
	if fail, ok := err.(*FailureError); ok {
		msg = fail.Message
	}
	h.logger.Info("sign in rejected", slog.String("path", r.URL.Path), slog.Any("error", err))
	h.render(w, r, name, title, formPageData{Form: form, Errors: shared.FieldErrors{"general": msg}}, http.StatusBadRequest)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, creds Credentials, greeting string) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	// a new id per sign-in keeps the previous user's cached lists out of reach
	sess.Renew()
	sess.SetCredentials(creds.Token, creds.User)
	if _, err := h.csrfManager.RotateToken(r.Context(), sess); err != nil {
		h.logger.Warn("rotate csrf token", slog.Any("error", err))
	}
	sess.AddFlash(shared.FlashMessage{Kind: shared.FlashSuccess, Title: "Signed In", Message: greeting})

	now := time.Now()
	h.service.RecordLogin(r.Context(), LoginRecord{
		SessionID: sess.ID,
		Username:  creds.User.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(h.sessionManager.TTL()),
		IP:        r.RemoteAddr,
		UserAgent: r.UserAgent(),
	})
	http.Redirect(w, r, HomePath, http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		h.service.RecordLogout(r.Context(), sess.ID)
		sess.ClearCredentials()
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, shared.LoginPath, http.StatusSeeOther)
}

package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmacare/pharmacy-web/internal/apiclient"
	"github.com/pharmacare/pharmacy-web/internal/auth"
	"github.com/pharmacare/pharmacy-web/internal/shared"
	"github.com/pharmacare/pharmacy-web/internal/testing/pagetest"
)

type recorder struct {
	mu     sync.Mutex
	starts []auth.LoginRecord
	ends   []string
}

func (r *recorder) Start(_ context.Context, rec auth.LoginRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.starts = append(r.starts, rec)
	return nil
}

func (r *recorder) End(_ context.Context, sessionID string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ends = append(r.ends, sessionID)
	return nil
}

func authBackend(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		body := pagetest.DecodeBody(t, r)
		switch {
		case body["usernameOrEmail"] == "asha" && body["password"] == "secret":
			pagetest.JSON(w, http.StatusOK, map[string]any{
				"token": "jwt-abc", "type": "Bearer", "username": "asha",
				"email": "asha@example.com", "fullName": "Asha Rao", "role": "ADMIN",
			})
		case body["usernameOrEmail"] == "locked":
			w.WriteHeader(http.StatusUnauthorized)
		default:
			pagetest.JSON(w, http.StatusBadRequest, map[string]any{"token": nil, "message": "Bad credentials"})
		}
	})
	mux.HandleFunc("/auth/register", func(w http.ResponseWriter, r *http.Request) {
		body := pagetest.DecodeBody(t, r)
		if body["username"] == "taken" {
			pagetest.JSON(w, http.StatusBadRequest, map[string]any{"message": "Error: Username is already taken!"})
			return
		}
		pagetest.JSON(w, http.StatusOK, map[string]any{
			"token": "jwt-new", "username": body["username"], "email": body["email"],
			"fullName": body["fullName"], "role": "USER",
		})
	})
	return mux
}

func newHandler(t *testing.T) (*pagetest.Harness, *auth.Handler, *recorder) {
	t.Helper()
	h := pagetest.New(t, authBackend(t))
	rec := &recorder{}
	service := auth.NewService(h.API, rec, nil, nil)
	handler := auth.NewHandler(nil, service, h.Screen.Templates, h.Sessions, h.Screen.CSRF)
	return h, handler, rec
}

func TestLoginPage(t *testing.T) {
	h, handler, _ := newHandler(t)

	res := pagetest.Serve("/auth", handler.MountRoutes, h.Request(http.MethodGet, "/auth/login", nil, h.AnonymousSession()))
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), "<form")
	assert.Contains(t, res.Body.String(), `name="usernameOrEmail"`)
}

func TestLoginPageRedirectsSignedInUser(t *testing.T) {
	h, handler, _ := newHandler(t)

	res := pagetest.Serve("/auth", handler.MountRoutes, h.Request(http.MethodGet, "/auth/login", nil, h.Session()))
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, auth.HomePath, res.Header().Get("Location"))
}

func TestLoginStoresCredentials(t *testing.T) {
	h, handler, rec := newHandler(t)
	sess := h.AnonymousSession()
	anonymousID := sess.ID
	before, err := h.Screen.CSRF.EnsureToken(context.Background(), sess)
	require.NoError(t, err)

	form := url.Values{"usernameOrEmail": {"asha"}, "password": {"secret"}}
	res := pagetest.Serve("/auth", handler.MountRoutes, h.Request(http.MethodPost, "/auth/login", form, sess))
	require.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, "/dashboard", res.Header().Get("Location"))

	token, info, ok := sess.Credentials()
	require.True(t, ok)
	assert.Equal(t, "jwt-abc", token)
	assert.Equal(t, "Asha Rao", info.FullName)
	assert.True(t, info.IsAdmin())
	assert.NotEqual(t, anonymousID, sess.ID)
	assert.NotEqual(t, before, sess.Get(shared.CSRFSessionKey))
	require.NoError(t, h.Screen.CSRF.VerifyToken(context.Background(), sess, sess.Get(shared.CSRFSessionKey)))

	flash := sess.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "Welcome back, Asha Rao", flash.Message)

	require.Len(t, rec.starts, 1)
	assert.Equal(t, "asha", rec.starts[0].Username)
	assert.Equal(t, sess.ID, rec.starts[0].SessionID)
}

func TestLoginFailures(t *testing.T) {
	cases := []struct {
		name   string
		form   url.Values
		status int
		want   string
	}{
		{"missing fields", url.Values{"usernameOrEmail": {""}, "password": {""}}, http.StatusUnprocessableEntity, "Password is required"},
		{"backend message", url.Values{"usernameOrEmail": {"asha"}, "password": {"nope"}}, http.StatusBadRequest, "Bad credentials"},
		{"rejected", url.Values{"usernameOrEmail": {"locked"}, "password": {"x"}}, http.StatusBadRequest, "Invalid email/username or password. Please try again."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h, handler, rec := newHandler(t)
			sess := h.AnonymousSession()

			res := pagetest.Serve("/auth", handler.MountRoutes, h.Request(http.MethodPost, "/auth/login", tc.form, sess))
			assert.Equal(t, tc.status, res.Code)
			assert.Contains(t, res.Body.String(), tc.want)
			assert.Empty(t, sess.Token())
			assert.Empty(t, rec.starts)
		})
	}
}

func TestLoginBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	service := auth.NewService(apiclient.New(base+"/api"), nil, nil, nil)
	_, err := service.Login(context.Background(), auth.LoginForm{UsernameOrEmail: "asha", Password: "secret"})
	require.Error(t, err)
	assert.Equal(t, auth.BackendDownMessage, err.Error())
}

func TestRegister(t *testing.T) {
	h, handler, _ := newHandler(t)
	sess := h.AnonymousSession()

	form := url.Values{"username": {"ravi"}, "fullName": {"Ravi Kumar"}, "email": {"ravi@example.com"}, "password": {"secret1"}, "agreeToTerms": {"on"}}
	res := pagetest.Serve("/auth", handler.MountRoutes, h.Request(http.MethodPost, "/auth/register", form, sess))
	require.Equal(t, http.StatusSeeOther, res.Code)
	_, info, ok := sess.Credentials()
	require.True(t, ok)
	assert.Equal(t, "ravi", info.Username)
	assert.Equal(t, "USER", info.Role)
}

func TestRegisterValidation(t *testing.T) {
	h, handler, _ := newHandler(t)

	form := url.Values{"username": {"ra"}, "fullName": {"Ravi"}, "email": {"ravi"}, "password": {"123"}}
	res := pagetest.Serve("/auth", handler.MountRoutes, h.Request(http.MethodPost, "/auth/register", form, h.AnonymousSession()))
	require.Equal(t, http.StatusUnprocessableEntity, res.Code)
	body := res.Body.String()
	assert.Contains(t, body, "Username must be at least 3 characters")
	assert.Contains(t, body, "Password must be at least 6 characters")
	assert.Contains(t, body, auth.TermsMessage)
}

func TestRegisterBackendRejects(t *testing.T) {
	h, handler, _ := newHandler(t)

	form := url.Values{"username": {"taken"}, "fullName": {"Ravi"}, "email": {"ravi@example.com"}, "password": {"secret1"}, "agreeToTerms": {"on"}}
	res := pagetest.Serve("/auth", handler.MountRoutes, h.Request(http.MethodPost, "/auth/register", form, h.AnonymousSession()))
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "Username is already taken!")
}

func TestLogout(t *testing.T) {
	h, handler, rec := newHandler(t)
	sess := h.Session()
	require.NoError(t, h.Screen.Snapshots.Save(context.Background(), sess.ID, "customers", []string{"x"}))

	res := pagetest.Serve("/auth", handler.MountRoutes, h.Request(http.MethodPost, "/auth/logout", url.Values{}, sess))
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, shared.LoginPath, res.Header().Get("Location"))
	assert.Empty(t, sess.Token())
	assert.Equal(t, []string{sess.ID}, rec.ends)
	h.Commit(sess)

	var stale []string
	_, ok, err := h.Screen.Snapshots.Load(context.Background(), sess.ID, "customers", &stale)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequireSessionAndHome(t *testing.T) {
	h, _, _ := newHandler(t)
	protected := auth.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	res := httptest.NewRecorder()
	protected.ServeHTTP(res, h.Request(http.MethodGet, "/customers", nil, h.AnonymousSession()))
	assert.Equal(t, http.StatusSeeOther, res.Code)
	assert.Equal(t, shared.LoginPath, res.Header().Get("Location"))

	res = httptest.NewRecorder()
	protected.ServeHTTP(res, h.Request(http.MethodGet, "/customers", nil, h.Session()))
	assert.Equal(t, http.StatusNoContent, res.Code)

	res = httptest.NewRecorder()
	auth.Home(res, h.Request(http.MethodGet, "/", nil, h.Session()))
	assert.Equal(t, auth.HomePath, res.Header().Get("Location"))

	res = httptest.NewRecorder()
	auth.Home(res, h.Request(http.MethodGet, "/", nil, nil))
	assert.Equal(t, shared.LoginPath, res.Header().Get("Location"))
}

func TestLoginDropsListsCachedForPreviousUser(t *testing.T) {
	h, handler, _ := newHandler(t)
	ctx := context.Background()
	sess := h.AnonymousSession()
	h.Commit(sess)
	previousID := sess.ID
	require.NoError(t, h.Screen.Snapshots.Save(ctx, previousID, "customers", []string{"Ben Okafor"}))

	form := url.Values{"usernameOrEmail": {"asha"}, "password": {"secret"}}
	res := pagetest.Serve("/auth", handler.MountRoutes, h.Request(http.MethodPost, "/auth/login", form, sess))
	require.Equal(t, http.StatusSeeOther, res.Code)
	h.Commit(sess)

	for _, id := range []string{previousID, sess.ID} {
		var stale []string
		_, ok, err := h.Screen.Snapshots.Load(ctx, id, "customers", &stale)
		require.NoError(t, err)
		assert.False(t, ok, id)
	}
	assert.False(t, h.Redis.Exists("session:"+previousID))
	assert.True(t, h.Redis.Exists("session:"+sess.ID))
}

// Package pagetest wires a signed-in session, the real templates and a fake
// backend for handler tests.
package pagetest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/pharmacare/pharmacy-web/internal/apiclient"
	pharmacyShared "github.com/pharmacare/pharmacy-web/internal/pharmacy/shared"
	"github.com/pharmacare/pharmacy-web/internal/shared"
	_ "github.com/pharmacare/pharmacy-web/internal/testing/guard"
	"github.com/pharmacare/pharmacy-web/internal/view"
	"github.com/pharmacare/pharmacy-web/report"
)

// Token is the bearer token stored on harness sessions.
const Token = "test-token"

// Harness holds the collaborators of a handler under test.
type Harness struct {
	T        *testing.T
	Redis    *miniredis.Miniredis
	Client   *redis.Client
	Sessions *shared.SessionManager
	Screen   *pharmacyShared.Screen
	API      *apiclient.Client
	Backend  *httptest.Server
	PDF      *httptest.Server
}

// New starts a fake backend serving backend under /api and a fake PDF
// renderer answering "%PDF-1.4".
func New(t *testing.T, backend http.Handler) *Harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	engine, err := view.NewEngine()
	require.NoError(t, err)

	if backend == nil {
		backend = http.NotFoundHandler()
	}
	api := httptest.NewServer(http.StripPrefix("/api", backend))
	t.Cleanup(api.Close)

	pdf := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4"))
	}))
	t.Cleanup(pdf.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := shared.NewSessionManager(client, "pharmacy_session", "test-secret", time.Hour, false)
	snapshots := shared.NewSnapshotStore(client, 15*time.Minute)
	sessions.OnRetire(snapshots.Drop)
	return &Harness{
		T:        t,
		Redis:    mr,
		Client:   client,
		Sessions: sessions,
		Screen: &pharmacyShared.Screen{
			Logger:    logger,
			Templates: engine,
			CSRF:      shared.NewCSRFManager("csrf-secret"),
			Snapshots: snapshots,
			Exporter:  report.NewExporter(report.NewClient(pdf.URL)),
		},
		API:     apiclient.New(api.URL+"/api", apiclient.WithLogger(logger)),
		Backend: api,
		PDF:     pdf,
	}
}

// Session returns a fresh session signed in as an administrator.
func (h *Harness) Session() *shared.Session {
	h.T.Helper()
	return h.SessionAs(shared.UserInfo{Username: "asha", Email: "asha@example.com", FullName: "Asha Rao", Role: "ADMIN"})
}

// SessionAs returns a fresh session signed in as user.
func (h *Harness) SessionAs(user shared.UserInfo) *shared.Session {
	h.T.Helper()
	sess := h.AnonymousSession()
	sess.SetCredentials(Token, user)
	return sess
}

// AnonymousSession returns a fresh session without credentials.
func (h *Harness) AnonymousSession() *shared.Session {
	h.T.Helper()
	sess, err := h.Sessions.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(h.T, err)
	return sess
}

// Commit saves sess the way the session middleware does after a response.
func (h *Harness) Commit(sess *shared.Session) {
	h.T.Helper()
	require.NoError(h.T, h.Sessions.Commit(context.Background(), httptest.NewRecorder(), nil, sess))
}

// Request builds a request carrying sess. A non-nil form is sent url-encoded.
func (h *Harness) Request(method, target string, form url.Values, sess *shared.Session) *http.Request {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req.WithContext(shared.ContextWithSession(req.Context(), sess))
}

// Serve mounts routes under prefix and records req.
func Serve(prefix string, routes func(chi.Router), req *http.Request) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.Route(prefix, routes)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// JSON writes v as a JSON response.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeBody decodes a JSON request body into a map.
func DecodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&out))
	return out
}

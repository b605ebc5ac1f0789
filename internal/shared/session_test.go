package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSessions(t *testing.T) (*SessionManager, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "pharmacy_session", "secret", time.Hour, false), client
}

func commitAndReload(t *testing.T, sm *SessionManager, sess *Session) *Session {
	t.Helper()
	ctx := context.Background()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, req, sess))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	return loaded
}

func TestSessionCredentialsRoundTrip(t *testing.T) {
	sm, _ := newTestSessions(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	sess.SetCredentials("tok-123", UserInfo{Username: "asha", Email: "asha@example.com", FullName: "Asha Rao", Role: "ADMIN"})
	loaded := commitAndReload(t, sm, sess)

	token, info, ok := loaded.Credentials()
	require.True(t, ok)
	assert.Equal(t, "tok-123", token)
	assert.Equal(t, "Asha Rao", info.DisplayName())
	assert.True(t, info.IsAdmin())
	assert.Equal(t, "asha", loaded.User())
}

func TestSessionClearCredentialsKeepsFlash(t *testing.T) {
	sm, _ := newTestSessions(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SetCredentials("tok", UserInfo{Username: "asha"})
	sess = commitAndReload(t, sm, sess)

	sess.ClearCredentials()
	sess.AddFlash(FlashMessage{Kind: FlashWarning, Message: SessionExpiredMessage})
	loaded := commitAndReload(t, sm, sess)

	_, _, ok := loaded.Credentials()
	assert.False(t, ok)
	flash := loaded.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, SessionExpiredMessage, flash.Message)

	again := commitAndReload(t, sm, loaded)
	assert.Nil(t, again.PopFlash())
}

func TestSessionDestroyDeletesKey(t *testing.T) {
	sm, client := newTestSessions(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SetCredentials("tok", UserInfo{Username: "asha"})
	sess = commitAndReload(t, sm, sess)

	sm.Destroy(sess)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), rec, httptest.NewRequest(http.MethodPost, "/", nil), sess))

	exists, err := client.Exists(context.Background(), "session:"+sess.ID).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestSessionIgnoresForgedCookie(t *testing.T) {
	sm, client := newTestSessions(t)
	ctx := context.Background()
	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SetCredentials("tok", UserInfo{Username: "asha"})
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), nil, sess))

	for _, value := range []string{sess.ID, sess.ID + ".bogus", "attacker-chosen." + "AAAA"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: value})
		loaded, err := sm.Load(ctx, req)
		require.NoError(t, err)
		assert.NotEqual(t, sess.ID, loaded.ID, value)
		assert.Empty(t, loaded.Token())
	}

	exists, err := client.Exists(ctx, "session:"+sess.ID).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}

func TestSessionUnknownIDStartsFresh(t *testing.T) {
	sm, _ := newTestSessions(t)
	ctx := context.Background()
	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rec, nil, sess))

	sm.Destroy(sess)
	require.NoError(t, sm.Commit(ctx, httptest.NewRecorder(), nil, sess))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	loaded, err := sm.Load(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, sess.ID, loaded.ID)
}

func TestSessionRenewRetiresOldID(t *testing.T) {
	sm, client := newTestSessions(t)
	ctx := context.Background()
	var retired []string
	sm.OnRetire(func(_ context.Context, id string) error {
		retired = append(retired, id)
		return nil
	})

	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	sess.SetCredentials("tok", UserInfo{Username: "asha"})
	sess = commitAndReload(t, sm, sess)
	oldID := sess.ID

	sess.ClearCredentials()
	sess.Renew()
	sess.AddFlash(FlashMessage{Kind: FlashWarning, Message: SessionExpiredMessage})
	loaded := commitAndReload(t, sm, sess)

	assert.Equal(t, []string{oldID}, retired)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.NotEqual(t, oldID, loaded.ID)
	require.NotNil(t, loaded.PopFlash())
	exists, err := client.Exists(ctx, "session:"+oldID).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
}

func TestCSRFTokenReissuedAfterRenew(t *testing.T) {
	sm, _ := newTestSessions(t)
	csrf := NewCSRFManager("csrf-secret")
	ctx := context.Background()
	sess, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	first, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	sess.Renew()
	second, err := csrf.EnsureToken(ctx, sess)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	require.NoError(t, csrf.VerifyToken(ctx, sess, second))
}

func TestCSRFRotateReplacesToken(t *testing.T) {
	sm, _ := newTestSessions(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	csrf := NewCSRFManager("csrf-secret")

	first, err := csrf.EnsureToken(context.Background(), sess)
	require.NoError(t, err)
	require.NoError(t, csrf.VerifyToken(context.Background(), sess, first))

	rotated, err := csrf.RotateToken(context.Background(), sess)
	require.NoError(t, err)
	assert.NotEqual(t, first, rotated)
	assert.ErrorIs(t, csrf.VerifyToken(context.Background(), sess, first), ErrCSRFTokenMismatch)
}

func TestCSRFTokenBoundToSession(t *testing.T) {
	sm, _ := newTestSessions(t)
	csrf := NewCSRFManager("csrf-secret")
	ctx := context.Background()

	alice, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	bob, err := sm.Load(ctx, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	token, err := csrf.EnsureToken(ctx, alice)
	require.NoError(t, err)
	again, err := csrf.EnsureToken(ctx, alice)
	require.NoError(t, err)
	assert.Equal(t, token, again)

	// a token planted into another session fails the signature check
	bob.Set(CSRFSessionKey, token)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, bob, token), ErrCSRFTokenMismatch)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, alice, ""), ErrCSRFTokenMissing)
	assert.ErrorIs(t, csrf.VerifyToken(ctx, nil, token), ErrCSRFTokenMissing)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, p := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, page)
	assert.True(t, p.HasPrev())
	assert.True(t, p.HasNext())

	page, p = Paginate(items, 9, 2)
	assert.Equal(t, []int{5}, page)
	assert.Equal(t, 3, p.Page)

	empty, p := Paginate([]int{}, 1, 20)
	assert.Empty(t, empty)
	assert.Equal(t, 0, p.TotalPages)
}

package shared

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Flash kinds understood by the layout.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
	FlashDelete  = "delete"
	FlashUpdate  = "update"
)

// Session keys holding the backend credentials.
const (
	AuthTokenKey = "auth_token"
	UserInfoKey  = "user_info"
)

// FlashMessage represents a one-time notification stored in session.
type FlashMessage struct {
	Kind    string `json:"kind"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

// UserInfo is the signed-in user as reported by the backend.
type UserInfo struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
}

// DisplayName prefers the full name and falls back to the username.
func (u UserInfo) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// IsAdmin reports whether the backend granted the ADMIN role.
func (u UserInfo) IsAdmin() bool {
	return u.Role == "ADMIN" || u.Role == "ROLE_ADMIN"
}

// SessionManager keeps sessions in Redis under "session:<id>". The cookie
// carries the id plus an HMAC of it, so ids that were never issued by this
// server are ignored instead of adopted.
type SessionManager struct {
	client     *redis.Client
	cookieName string
	ttl        time.Duration
	secure     bool
	secret     []byte
	onRetire   []RetireFunc
}

// RetireFunc releases data kept under a session id that is no longer in use.
type RetireFunc func(ctx context.Context, sessionID string) error

// Session is the per-request view of the stored session.
type Session struct {
	ID        string
	values    map[string]string
	username  string
	flashes   []FlashMessage
	fresh     bool
	dirty     bool
	destroyed bool
	retired   []string
}

type storedSession struct {
	Values   map[string]string `json:"values"`
	Username string            `json:"username,omitempty"`
	Flashes  []FlashMessage    `json:"flashes,omitempty"`
}

// NewSessionManager constructs a SessionManager. secure marks the cookie
// Secure and should be set behind TLS.
func NewSessionManager(client *redis.Client, cookieName, secret string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{
		client:     client,
		cookieName: cookieName,
		ttl:        ttl,
		secure:     secure,
		secret:     []byte(secret),
	}
}

// Load returns the session named by the request cookie. A missing, forged or
// expired cookie yields a fresh anonymous session; only Redis failures are
// reported as errors.
func (sm *SessionManager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(sm.cookieName)
	if err != nil {
		return sm.fresh(), nil
	}
	id, ok := sm.verify(cookie.Value)
	if !ok {
		return sm.fresh(), nil
	}

	data, err := sm.client.Get(ctx, sm.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return sm.fresh(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return sm.fresh(), nil
	}
	if stored.Values == nil {
		stored.Values = map[string]string{}
	}
	return &Session{ID: id, values: stored.Values, username: stored.Username, flashes: stored.Flashes}, nil
}

// Commit saves sess when it changed and refreshes the cookie. Ids retired by
// Renew or Destroy are deleted together with everything registered through
// OnRetire. A destroyed session also has its cookie expired.
func (sm *SessionManager) Commit(ctx context.Context, w http.ResponseWriter, _ *http.Request, sess *Session) error {
	if sess == nil {
		return nil
	}
	retired := sess.retired
	if sess.destroyed {
		retired = append(retired, sess.ID)
	}
	if err := sm.retire(ctx, retired); err != nil {
		return err
	}
	sess.retired = nil
	if sess.destroyed {
		http.SetCookie(w, sm.cookie("", -1))
		return nil
	}

	if sess.dirty || sess.fresh {
		data, err := json.Marshal(storedSession{Values: sess.values, Username: sess.username, Flashes: sess.flashes})
		if err != nil {
			return fmt.Errorf("session: encode: %w", err)
		}
		if err := sm.client.Set(ctx, sm.key(sess.ID), data, sm.ttl).Err(); err != nil {
			return fmt.Errorf("session: save: %w", err)
		}
		sess.dirty = false
		sess.fresh = false
	}
	http.SetCookie(w, sm.cookie(sm.sign(sess.ID), int(sm.ttl.Seconds())))
	return nil
}

// OnRetire registers fn to run for every id a Commit retires.
func (sm *SessionManager) OnRetire(fn RetireFunc) {
	if fn != nil {
		sm.onRetire = append(sm.onRetire, fn)
	}
}

func (sm *SessionManager) retire(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sm.key(id)
	}
	if err := sm.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	for _, id := range ids {
		for _, fn := range sm.onRetire {
			if err := fn(ctx, id); err != nil {
				return fmt.Errorf("session: retire %s: %w", id, err)
			}
		}
	}
	return nil
}

// Destroy marks sess for deletion on the next Commit.
func (sm *SessionManager) Destroy(sess *Session) {
	if sess != nil {
		sess.destroyed = true
	}
}

// TTL is the idle lifetime of a session.
func (sm *SessionManager) TTL() time.Duration {
	return sm.ttl
}

// CookieName is the session cookie name.
func (sm *SessionManager) CookieName() string {
	return sm.cookieName
}

func (sm *SessionManager) fresh() *Session {
	return &Session{ID: uuid.NewString(), values: map[string]string{}, fresh: true}
}

func (sm *SessionManager) key(id string) string {
	return "session:" + id
}

func (sm *SessionManager) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     sm.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (sm *SessionManager) sign(id string) string {
	return id + "." + base64.RawURLEncoding.EncodeToString(sm.mac(id))
}

func (sm *SessionManager) verify(value string) (string, bool) {
	id, sig, ok := strings.Cut(value, ".")
	if !ok || id == "" {
		return "", false
	}
	got, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil || !hmac.Equal(got, sm.mac(id)) {
		return "", false
	}
	return id, true
}

func (sm *SessionManager) mac(id string) []byte {
	h := hmac.New(sha256.New, sm.secret)
	_, _ = h.Write([]byte(id))
	return h.Sum(nil)
}

// Set stores value under key.
func (s *Session) Set(key, value string) {
	if s.values == nil {
		s.values = map[string]string{}
	}
	s.values[key] = value
	s.dirty = true
}

// Get returns the value under key, or "".
func (s *Session) Get(key string) string {
	return s.values[key]
}

// Delete removes key.
func (s *Session) Delete(key string) {
	if _, ok := s.values[key]; ok {
		delete(s.values, key)
		s.dirty = true
	}
}

// User returns the signed-in username, or "".
func (s *Session) User() string {
	return s.username
}

// SetCredentials stores the bearer token and user info after sign-in.
func (s *Session) SetCredentials(token string, info UserInfo) {
	raw, _ := json.Marshal(info)
	s.Set(AuthTokenKey, token)
	s.Set(UserInfoKey, string(raw))
	s.username = info.Username
}

// Credentials returns the stored token and user info. ok is false when no
// token is present.
func (s *Session) Credentials() (token string, info UserInfo, ok bool) {
	if s == nil {
		return "", UserInfo{}, false
	}
	token = s.Get(AuthTokenKey)
	if token == "" {
		return "", UserInfo{}, false
	}
	if raw := s.Get(UserInfoKey); raw != "" {
		_ = json.Unmarshal([]byte(raw), &info)
	}
	return token, info, true
}

// Token returns the stored bearer token, or "".
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.Get(AuthTokenKey)
}

// ClearCredentials drops the token and user info but keeps the session so a
// flash can still reach the login page.
func (s *Session) ClearCredentials() {
	s.Delete(AuthTokenKey)
	s.Delete(UserInfoKey)
	s.username = ""
	s.dirty = true
}

// Renew moves the session to a new id, keeping its values and flashes. The
// old id is retired on the next Commit. Called whenever the signed-in user
// changes so nothing keyed by the old id carries over.
func (s *Session) Renew() {
	if s == nil {
		return
	}
	s.retired = append(s.retired, s.ID)
	s.ID = uuid.NewString()
	s.fresh = true
	s.dirty = true
}

// AddFlash queues msg for the next rendered page.
func (s *Session) AddFlash(msg FlashMessage) {
	s.flashes = append(s.flashes, msg)
	s.dirty = true
}

// PopFlash removes and returns the oldest queued flash.
func (s *Session) PopFlash() *FlashMessage {
	if len(s.flashes) == 0 {
		return nil
	}
	msg := s.flashes[0]
	s.flashes = s.flashes[1:]
	s.dirty = true
	return &msg
}

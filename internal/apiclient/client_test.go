package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customerList struct {
	Customers []struct {
		ID   int64  `json:"id"`
		Name string `json:"customerName"`
	} `json:"customers"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL + "/api"), srv
}

func TestDoSendsBearerTokenAndDecodes(t *testing.T) {
	var gotAuth, gotPath, gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"customers":[{"id":7,"customerName":"Asha"}]}`))
	})

	var out customerList
	err := client.Get(context.Background(), "opaque-token", "/customers", map[string][]string{"page": {"0"}, "size": {"1000"}}, &out)
	require.NoError(t, err)
	require.Len(t, out.Customers, 1)
	assert.Equal(t, "Asha", out.Customers[0].Name)
	assert.Equal(t, "Bearer opaque-token", gotAuth)
	assert.Equal(t, "/api/customers", gotPath)
	assert.Equal(t, "page=0&size=1000", gotQuery)
}

func TestDoMissingSuccessIsFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"customers":[]}`))
	})

	err := client.Get(context.Background(), "token", "/customers", nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrApplication))
	assert.Equal(t, KindApplication, KindOf(err))
}

func TestDoSuccessFalseCarriesMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"Email already exists"}`))
	})

	err := client.Post(context.Background(), "token", "/customers", map[string]string{"email": "a@b.co"}, nil)
	require.Error(t, err)
	assert.Equal(t, "Email already exists", Message(err))
}

func TestDoUnauthorizedStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	err := client.Get(context.Background(), "token", "/medicines", nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Session expired. Please login again.", Message(err))
}

func TestDoForbiddenStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"nope"}`))
	})

	err := client.Delete(context.Background(), "token", "/medicines/3")
	require.ErrorIs(t, err, ErrForbidden)
	assert.Contains(t, Message(err), "Access denied")
}

func TestDoNonJSONBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html>oops</html>"))
	})

	err := client.Get(context.Background(), "token", "/sales", nil, nil)
	require.ErrorIs(t, err, ErrApplication)
}

func TestDoHTTPErrorUsesBodyMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"Invalid phone"}`))
	})

	err := client.Get(context.Background(), "token", "/suppliers", nil, nil)
	require.ErrorIs(t, err, ErrApplication)
	assert.Equal(t, "Invalid phone", Message(err))

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestDoHTTPErrorFallbackMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{}`))
	})

	err := client.Get(context.Background(), "token", "/payments", nil, nil)
	require.Error(t, err)
	assert.Equal(t, "HTTP error! status: 500", Message(err))
}

func TestDoNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	client := New(base)
	err := client.Get(context.Background(), "token", "/equipment", nil, nil)
	require.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, KindNetwork, KindOf(err))
}

func TestDoWithoutTokenSkipsNetwork(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	err := client.Get(context.Background(), "", "/customers", nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Authentication required. Please login again.", Message(err))
	assert.Zero(t, calls)
}

func TestDoRejectsExpiredJWT(t *testing.T) {
	calls := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
	})
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	token := signedToken(t, now.Add(-time.Minute))
	err := client.Get(context.Background(), token, "/customers", nil, nil)
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, calls)

	fresh := signedToken(t, now.Add(time.Hour))
	exp, ok := TokenExpiry(fresh)
	require.True(t, ok)
	assert.True(t, exp.After(now))
}

func TestDoRawAuthEndpoint(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "asha", body["usernameOrEmail"])
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"token":"abc","type":"Bearer","username":"asha","role":"ADMIN"}`))
	})

	var out struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
	err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   map[string]string{"usernameOrEmail": "asha", "password": "secret"},
		Raw:    true,
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "abc", out.Token)
	assert.Equal(t, "ADMIN", out.Role)
}

func TestPing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/test", r.URL.Path)
		_, _ = w.Write([]byte("Auth endpoint is working"))
	})
	require.NoError(t, client.Ping(context.Background()))
}

func TestMetricsCountOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/customers/1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL+"/api", WithMetrics(metrics))
	require.NoError(t, client.Get(context.Background(), "t", "/customers", nil, nil))
	require.Error(t, client.Get(context.Background(), "t", "/customers/1", nil, nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("customers", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("customers", "unauthorized")))
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "asha",
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

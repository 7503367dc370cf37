package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/H2Siting/internal/infrastructure/auth/session"
)

func TestRateLimiter_BurstThenReject(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 2})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	h := l.Handler(okHandler())
	send := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/LLM/chat", nil)
		r.RemoteAddr = "10.0.0.1:5555"
		h.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusOK, send().Code)
	assert.Equal(t, http.StatusOK, send().Code)

	w := send()
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"status":"error","error":"Too many requests, please retry later."}`, w.Body.String())

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, send().Code)
}

func TestRateLimiter_SeparateClients(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1})

	ok, _ := l.Reserve("ip:10.0.0.1")
	assert.True(t, ok)
	ok, wait := l.Reserve("ip:10.0.0.1")
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))

	ok, _ = l.Reserve("ip:10.0.0.2")
	assert.True(t, ok)
	assert.Equal(t, 2, l.Len())
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	l := NewRateLimiter(RateLimitConfig{IdleTTL: time.Minute})
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Reserve("a")
	l.Reserve("b")
	now = now.Add(2 * time.Minute)
	l.Reserve("c")

	assert.Equal(t, 1, l.Len())
}

func TestClientKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.10:1234"
	assert.Equal(t, "ip:192.0.2.10", ClientKey(r))

	r = r.WithContext(WithClaims(r.Context(), &session.Claims{UserID: 12}))
	assert.Equal(t, "user:12", ClientKey(r))
}

//Personal.AI order the ending

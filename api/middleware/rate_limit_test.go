package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterStore struct {
	counts map[string]int64
	ttls   map[string]time.Duration
	err    error
}

func newCounterStore() *counterStore {
	return &counterStore{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (s *counterStore) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.counts[key]++
	if s.counts[key] == 1 {
		s.ttls[key] = ttl
	}
	return s.counts[key], nil
}

func (s *counterStore) RateLimitKey(scope, id string) string {
	return scope + ":" + id
}

func rateLimitedHandler(store *counterStore, policy RateLimitPolicy, calls *int) http.Handler {
	return RateLimit(policy, store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusOK)
	}))
}

func postFrom(remote string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/carts", nil)
	req.RemoteAddr = remote
	return req
}

func TestRateLimitBlocksAfterLimitPerIP(t *testing.T) {
	store := newCounterStore()
	calls := 0
	handler := rateLimitedHandler(store, RateLimitPolicy{Scope: "cart_create", Limit: 2, Window: time.Minute}, &calls)

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, postFrom("10.0.0.1:5000"))
		require.Equal(t, http.StatusOK, resp.Code)
	}

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, postFrom("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "60", resp.Header().Get("Retry-After"))
	assert.Contains(t, resp.Body.String(), "RATE_LIMITED")
	assert.Equal(t, 2, calls)
	assert.Equal(t, time.Minute, store.ttls["cart_create:10.0.0.1"])

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, postFrom("10.0.0.2:5000"))
	assert.Equal(t, http.StatusOK, resp.Code, "other clients keep their own window")
}

func TestRateLimitUsesForwardedFor(t *testing.T) {
	store := newCounterStore()
	calls := 0
	handler := rateLimitedHandler(store, RateLimitPolicy{Scope: "cart_create", Limit: 1, Window: time.Minute}, &calls)

	req := postFrom("192.168.1.1:80")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, int64(1), store.counts["cart_create:203.0.113.7"])
}

func TestRateLimitDisabledOrUnavailable(t *testing.T) {
	calls := 0
	handler := rateLimitedHandler(newCounterStore(), RateLimitPolicy{Scope: "cart_create"}, &calls)
	for i := 0; i < 5; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, postFrom("10.0.0.1:5000"))
		require.Equal(t, http.StatusOK, resp.Code)
	}

	failing := newCounterStore()
	failing.err = errors.New("connection refused")
	handler = rateLimitedHandler(failing, RateLimitPolicy{Scope: "cart_create", Limit: 1, Window: time.Minute}, &calls)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, postFrom("10.0.0.1:5000"))
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, 5, calls)
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redis_rate/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/2beens/calisthenics/internal/telemetry/metrics"
)

type fakeRateLimiter struct {
	allowed int
	err     error
	keys    []string
}

func (f *fakeRateLimiter) Allow(_ context.Context, key string, limit redis_rate.Limit) (*redis_rate.Result, error) {
	f.keys = append(f.keys, key)
	if f.err != nil {
		return nil, f.err
	}
	if f.allowed <= 0 {
		return &redis_rate.Result{Limit: limit, Allowed: 0, RetryAfter: 30 * time.Second}, nil
	}
	f.allowed--
	return &redis_rate.Result{Limit: limit, Allowed: 1, Remaining: f.allowed}, nil
}

func TestRateLimit(t *testing.T) {
	limiter := &fakeRateLimiter{allowed: 2}
	metricsManager := metrics.NewTestManager()
	handler := RateLimit(limiter, "login", 2, metricsManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	var codes []int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/a/login", nil)
		req.Header.Set("X-Real-Ip", "83.12.53.65")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, "login:83.12.53.65", limiter.keys[0])
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterRateLimitedRequests))
}

func TestRateLimit_LimiterError(t *testing.T) {
	limiter := &fakeRateLimiter{err: errors.New("redis down")}
	handler := RateLimit(limiter, "login", 2, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/a/login", nil))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

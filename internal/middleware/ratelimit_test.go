package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkease/parking-slot-reservation/internal/config"
)

func testLimiterConfig(capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip",
		Prefix:         "rl",
	}
}

func doLimited(t *testing.T, mw echo.MiddlewareFunc) int {
	t.Helper()
	e := echo.New()
	e.GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	}, mw)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestTokenBucketRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	mw := NewTokenBucket(testLimiterConfig(3), rdb)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusOK, doLimited(t, mw), "request %d should pass", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, doLimited(t, mw))
}

func TestTokenBucketDisabled(t *testing.T) {
	cfg := testLimiterConfig(1)
	cfg.Enabled = false
	mw := NewTokenBucket(cfg, nil)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, doLimited(t, mw))
	}
}

func TestTokenBucketLocalFallback(t *testing.T) {
	// nil Redis client switches to the in-process limiter.
	mw := NewTokenBucket(testLimiterConfig(2), nil)

	require.Equal(t, http.StatusOK, doLimited(t, mw))
	require.Equal(t, http.StatusOK, doLimited(t, mw))
	assert.Equal(t, http.StatusTooManyRequests, doLimited(t, mw))
}

func TestBuildRateKeyStrategies(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/cities", nil)
	req.RemoteAddr = "10.0.0.9:5555"
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/cities")

	cfg := testLimiterConfig(1)

	cfg.KeyStrategy = "ip"
	assert.Equal(t, "rl:ip:10.0.0.9", buildRateKey(cfg, c))

	cfg.KeyStrategy = "route"
	assert.Equal(t, "rl:route:GET /v1/cities", buildRateKey(cfg, c))

	cfg.KeyStrategy = "ip_user_route"
	assert.Equal(t, "rl:ip:10.0.0.9:user:anon:route:GET /v1/cities", buildRateKey(cfg, c))

	c.Set("user_id", "17")
	assert.Equal(t, "rl:ip:10.0.0.9:user:17:route:GET /v1/cities", buildRateKey(cfg, c))
}

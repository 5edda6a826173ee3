package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkease/parking-slot-reservation/internal/config"
)

func testCacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func newCachedEcho(t *testing.T, mw echo.MiddlewareFunc, hits *int) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.GET("/v1/cities", func(c echo.Context) error {
		*hits++
		return c.JSON(http.StatusOK, echo.Map{"cities": []string{"Pune"}})
	}, mw)
	e.POST("/v1/cities", func(c echo.Context) error {
		*hits++
		return c.JSON(http.StatusCreated, echo.Map{"ok": true})
	}, mw)
	return e
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRedisCacheHit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hits := 0
	e := newCachedEcho(t, NewRedisCache(testCacheConfig(), rdb), &hits)

	first := get(e, "/v1/cities")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, 1, hits)

	second := get(e, "/v1/cities")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.Equal(t, 1, hits, "handler must not run on a cache hit")
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestRedisCacheKeyIncludesQuery(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hits := 0
	e := newCachedEcho(t, NewRedisCache(testCacheConfig(), rdb), &hits)

	get(e, "/v1/cities?page=1")
	get(e, "/v1/cities?page=2")
	assert.Equal(t, 2, hits, "different queries must not share an entry")
}

func TestRedisCacheSkipsOtherMethods(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hits := 0
	e := newCachedEcho(t, NewRedisCache(testCacheConfig(), rdb), &hits)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/cities", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	assert.Equal(t, 2, hits)
}

func TestRedisCacheNilClientPassthrough(t *testing.T) {
	hits := 0
	e := newCachedEcho(t, NewRedisCache(testCacheConfig(), nil), &hits)

	get(e, "/v1/cities")
	get(e, "/v1/cities")
	assert.Equal(t, 2, hits)
}

func TestRedisCacheSkipsOversizedBody(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := testCacheConfig()
	cfg.MaxBodyBytes = 16
	big := strings.Repeat("x", 100)

	hits := 0
	e := echo.New()
	e.GET("/v1/cities", func(c echo.Context) error {
		hits++
		return c.String(http.StatusOK, big)
	}, NewRedisCache(cfg, rdb))

	first := get(e, "/v1/cities")
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, big, first.Body.String())

	second := get(e, "/v1/cities")
	assert.Equal(t, "MISS", second.Header().Get("X-Cache"))
	assert.Equal(t, big, second.Body.String(), "a body over the cap must never come back truncated from cache")
	assert.Equal(t, 2, hits)
}

func TestEncodeDecodePayload(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"ok":true}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)

	t.Run("short payloads are rejected", func(t *testing.T) {
		_, _, _, ok := decodePayload([]byte{1, 2, 3})
		assert.False(t, ok)
	})
}

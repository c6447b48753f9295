package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CkHanchey/pnrgov/internal/config"
)

func cacheCtx(method, target string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(strings.SplitN(target, "?", 2)[0])
	return c
}

func TestCacheKeyStrategies(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}

	a := cacheCtx(http.MethodGet, "/v1/reservations?limit=10")
	b := cacheCtx(http.MethodGet, "/v1/reservations?limit=20")

	// Default strategy includes the query, so different queries diverge.
	assert.NotEqual(t, cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, b))

	cfg.KeyStrategy = "route"
	assert.Equal(t, cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, b))

	cfg.KeyStrategy = "method_route"
	head := cacheCtx(http.MethodHead, "/v1/reservations?limit=10")
	assert.NotEqual(t, cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, head))

	for _, key := range []string{cacheKeyFrom(cfg, a), cacheKeyFrom(cfg, b)} {
		assert.True(t, strings.HasPrefix(key, "cache:"))
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "text/plain")
	hdr.Add("X-Custom", "one")
	hdr.Add("X-Custom", "two")

	payload, err := encodePayload(http.StatusOK, hdr, []byte("UNA:+.?*'\n"))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "text/plain", gotHdr.Get("Content-Type"))
	assert.Equal(t, []string{"one", "two"}, gotHdr["X-Custom"])
	assert.Equal(t, "UNA:+.?*'\n", string(body))
}

func TestDecodePayloadRejectsTruncatedInput(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, {0, 0, 0, 200, 0, 0, 0, 99}} {
		_, _, _, ok := decodePayload(bs)
		assert.False(t, ok)
	}
}

func TestCacheDisabledPassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/reservations", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "ok")
	})(c)

	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}

func TestCaptureWriterHonorsLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	_, err := cw.Write([]byte("abcdef"))
	require.NoError(t, err)

	assert.Equal(t, "abcd", cw.buf.String(), "capture stops at the limit")
	assert.Equal(t, int64(6), cw.size, "size tracks the full response")
	assert.Equal(t, "abcdef", rec.Body.String(), "client still gets everything")
}

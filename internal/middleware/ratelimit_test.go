package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CkHanchey/pnrgov/internal/config"
)

func TestRateLimiterDisabledPassesThrough(t *testing.T) {
	for _, cfg := range []config.RateLimitConfig{
		{Enabled: false, Limit: 1},
		{Enabled: true, Limit: 1}, // nil client
	} {
		mw := NewRateLimiter(cfg, nil)

		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz", nil), rec)

		called := false
		err := mw(func(c echo.Context) error {
			called = true
			return c.NoContent(http.StatusOK)
		})(c)

		require.NoError(t, err)
		assert.True(t, called)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

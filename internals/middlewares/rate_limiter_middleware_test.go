package middlewares

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examplanner_backend/internals/configs"
)

// app.Test connections come from 0.0.0.0.
func newLoginApp(proxies []string) *fiber.App {
	cfg := fiber.Config{}
	configs.ApplyTrustedProxies(&cfg, proxies)
	app := fiber.New(cfg)
	app.Post("/api/auth/login", LoginRateLimiter(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func throttledLogins(t *testing.T, app *fiber.App, attempts int) int {
	t.Helper()
	throttled := 0
	for i := 0; i < attempts; i++ {
		req := httptest.NewRequest(fiber.MethodPost, "/api/auth/login", nil)
		req.Header.Set(fiber.HeaderXForwardedFor, fmt.Sprintf("203.0.113.%d", i+1))
		resp, err := app.Test(req)
		require.NoError(t, err)
		if resp.StatusCode == fiber.StatusTooManyRequests {
			throttled++
		}
	}
	return throttled
}

func TestLoginRateLimiter_SpoofedForwardedFor(t *testing.T) {
	t.Run("no trusted proxies", func(t *testing.T) {
		assert.Equal(t, 15, throttledLogins(t, newLoginApp(nil), 20))
	})

	t.Run("peer outside the trusted ranges", func(t *testing.T) {
		assert.Equal(t, 15, throttledLogins(t, newLoginApp([]string{"10.0.0.0/8"}), 20))
	})

	t.Run("peer is a trusted proxy", func(t *testing.T) {
		// each forwarded client gets its own bucket
		assert.Equal(t, 0, throttledLogins(t, newLoginApp([]string{"0.0.0.0"}), 20))
	})
}

func TestApplyTrustedProxies(t *testing.T) {
	cfg := fiber.Config{ProxyHeader: fiber.HeaderXForwardedFor, TrustedProxies: []string{"0.0.0.0/0"}}
	configs.ApplyTrustedProxies(&cfg, nil)
	assert.Empty(t, cfg.ProxyHeader)
	assert.False(t, cfg.EnableTrustedProxyCheck)
	assert.Nil(t, cfg.TrustedProxies)

	configs.ApplyTrustedProxies(&cfg, []string{"10.0.0.0/8"})
	assert.Equal(t, fiber.HeaderXForwardedFor, cfg.ProxyHeader)
	assert.True(t, cfg.EnableTrustedProxyCheck)
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.TrustedProxies)
}

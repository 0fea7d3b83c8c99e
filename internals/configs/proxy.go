package configs

import "github.com/gofiber/fiber/v2"

// ApplyTrustedProxies enables X-Forwarded-For only for the given proxies.
// Without any, c.IP() is the peer address and the header is ignored.
func ApplyTrustedProxies(cfg *fiber.Config, proxies []string) {
	if len(proxies) == 0 {
		cfg.ProxyHeader = ""
		cfg.EnableTrustedProxyCheck = false
		cfg.TrustedProxies = nil
		return
	}
	cfg.ProxyHeader = fiber.HeaderXForwardedFor
	cfg.EnableTrustedProxyCheck = true
	cfg.TrustedProxies = proxies
}

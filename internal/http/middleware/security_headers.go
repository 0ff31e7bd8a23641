package middleware

import (
	"github.com/labstack/echo/v4"
)

// The service only returns JSON and file downloads, so nothing may be
// framed, scripted or embedded.
const (
	contentSecurityPolicy = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'none'"
	strictTransport       = "max-age=31536000; includeSubDomains"
	permissionsPolicy     = "geolocation=(), microphone=(), camera=(), payment=(), usb=()"
)

// SecurityHeaders adds security headers to all responses
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()
			h.Set("Content-Security-Policy", contentSecurityPolicy)
			h.Set("Strict-Transport-Security", strictTransport)
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			// Download links carry their token in the URL.
			h.Set("Referrer-Policy", "no-referrer")
			h.Set("Permissions-Policy", permissionsPolicy)
			h.Set("Cache-Control", "no-store")

			h.Del("Server")
			h.Del("X-Powered-By")

			return next(c)
		}
	}
}

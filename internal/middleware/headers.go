package middleware

import "github.com/gin-gonic/gin"

// NoCache stops browsers and proxies from keeping any response.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		c.Header("Pragma", "no-cache")
		c.Header("Expires", "0")
		c.Next()
	}
}

// SecurityHeaders adds basic hardening headers. Pages use inline styles and
// scripts and a data: URL logo.
func SecurityHeaders() gin.HandlerFunc {
	csp := "default-src 'self';" +
		" img-src 'self' data:;" +
		" style-src 'self' 'unsafe-inline';" +
		" script-src 'self' 'unsafe-inline';" +
		" connect-src 'self' ws: wss:;" +
		" frame-ancestors 'none'"

	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", csp)
		c.Next()
	}
}

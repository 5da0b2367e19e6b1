package middleware

import "github.com/gin-gonic/gin"

// SecureHeaders sets the baseline response headers expected of any API
// fronting customer and payment data: no sniffing, no framing, no caching of
// responses that may carry account or invoice detail.
func SecureHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		c.Header("Cache-Control", "no-store")
		c.Next()
	}
}

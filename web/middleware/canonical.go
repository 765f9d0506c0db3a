package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CanonicalHostRedirect permanently redirects any request whose host differs
// from the canonical one. The scheme follows X-Forwarded-Proto so redirects
// behind a TLS-terminating proxy stay on https.
func CanonicalHostRedirect(canonicalHost string) gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.Request.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		if strings.EqualFold(host, canonicalHost) {
			c.Next()
			return
		}

		scheme := "http"
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		c.Redirect(http.StatusMovedPermanently, scheme+"://"+canonicalHost+c.Request.RequestURI)
		c.Abort()
	}
}

package middleware

import (
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/studytube/pkg/response"
)

func isPrivate(c *gin.Context) bool {
	parsed := net.ParseIP(ClientIP(c))
	if parsed == nil {
		return false
	}
	return parsed.IsLoopback() || parsed.IsPrivate()
}

// AllowPrivateIP bypasses rate limits for loopback and RFC 1918 clients.
func AllowPrivateIP() AllowFunc {
	return isPrivate
}

// PrivateOnly hides a route from public clients.
func PrivateOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isPrivate(c) {
			response.Abort(c, http.StatusNotFound, "Not found")
			return
		}
		c.Next()
	}
}

package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AllowFunc returns true when a request should bypass rate limiting.
type AllowFunc func(*gin.Context) bool

// AllowPrivateIP bypasses loopback and private (10/8, 172.16/12, 192.168/16) clients.
func AllowPrivateIP() AllowFunc {
	return func(c *gin.Context) bool {
		parsed := net.ParseIP(ipFromCtx(c))
		if parsed == nil {
			return false
		}
		return parsed.IsLoopback() || parsed.IsPrivate()
	}
}

// AllowPreflight bypasses CORS preflight requests.
func AllowPreflight() AllowFunc {
	return func(c *gin.Context) bool {
		return strings.EqualFold(c.Request.Method, http.MethodOptions)
	}
}

// AnyAllow combines bypass rules; nil entries are skipped.
func AnyAllow(fns ...AllowFunc) AllowFunc {
	return func(c *gin.Context) bool {
		for _, fn := range fns {
			if fn != nil && fn(c) {
				return true
			}
		}
		return false
	}
}

package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// TrustProxies decides which peers may speak for the client. Forwarding
// headers (X-Forwarded-For, X-Real-IP) are honoured only when the direct peer
// is in proxies; with no proxies the TCP peer address is the client. platform
// names a header set by a fronting platform (e.g. gin.PlatformCloudflare) and
// must only be used when the service is reachable through that platform alone.
func TrustProxies(engine *gin.Engine, proxies []string, platform string) error {
	if len(proxies) == 0 {
		proxies = nil
	}
	if err := engine.SetTrustedProxies(proxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}
	engine.TrustedPlatform = platform
	return nil
}

// RealIP stores the client IP resolved by gin under "real_ip".
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("real_ip", c.ClientIP())
		c.Next()
	}
}

// ipFromCtx returns the IP chosen by RealIP, falling back to "unknown".
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString("real_ip"); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

package middleware

import (
	"expvar"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-management-api/pkg/ratelimit"
)

const (
	RemainingHeader  = "X-Rate-Limit-Remaining"
	RateLimitMessage = "Too many requests - rate limit exceeded."
)

var (
	rateAdmitted = expvar.NewInt("ratelimit_admitted")
	rateRejected = expvar.NewInt("ratelimit_rejected")
	rateErrors   = expvar.NewInt("ratelimit_backend_errors")
)

// KeyFunc builds a rate-limit identity from the request.
type KeyFunc func(c *gin.Context) string

// KeyByIP limits by the client IP chosen by RealIP.
func KeyByIP() KeyFunc {
	return ipFromCtx
}

// RateLimit admits each request through limiter before any handler runs.
// Admitted requests carry X-Rate-Limit-Remaining; rejected ones get 429 with
// a plain-text body. If the limiter backend fails the request is let through.
func RateLimit(limiter ratelimit.Limiter, keyFn KeyFunc, allow AllowFunc, logger *logrus.Logger) gin.HandlerFunc {
	if limiter == nil || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if allow != nil && allow(c) {
			c.Next()
			return
		}

		key := keyFn(c)
		d, err := limiter.Admit(c.Request.Context(), key)
		if err != nil {
			rateErrors.Add(1)
			if logger != nil {
				logger.WithError(err).WithField("client", key).Warn("rate limiter unavailable, failing open")
			}
			c.Next()
			return
		}

		if !d.Allowed {
			rateRejected.Add(1)
			if d.RetryAfter > 0 {
				c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
			}
			c.Header(RemainingHeader, "0")
			c.Data(http.StatusTooManyRequests, "text/plain; charset=utf-8", []byte(RateLimitMessage))
			c.Abort()
			return
		}

		rateAdmitted.Add(1)
		c.Header(RemainingHeader, strconv.FormatInt(d.Remaining, 10))
		c.Next()
	}
}

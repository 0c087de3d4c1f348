package httpserver

import (
	"math"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	apperrors "github.com/pscheid92/sentilog/internal/platform/errors"
	"golang.org/x/time/rate"
)

const analyzeBucketExpiry = 5 * time.Minute

// newAnalyzeLimiter gives every client IP its own token bucket for POST /api/sentiment.
// Rejected requests get a Retry-After of one token refill.
func newAnalyzeLimiter(ratePerSecond float64, burst int) echo.MiddlewareFunc {
	buckets := middleware.NewRateLimiterMemoryStoreWithConfig(
		middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(ratePerSecond),
			Burst:     burst,
			ExpiresIn: analyzeBucketExpiry,
		},
	)
	retryAfter := strconv.Itoa(refillSeconds(ratePerSecond))

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		Store: buckets,
		DenyHandler: func(c echo.Context, clientIP string, _ error) error {
			c.Response().Header().Set(echo.HeaderRetryAfter, retryAfter)
			return HandleError(c, apperrors.RateLimitedError("too many analyze requests").WithContext("client_ip", clientIP))
		},
	})
}

func refillSeconds(ratePerSecond float64) int {
	if ratePerSecond <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(1/ratePerSecond)))
}

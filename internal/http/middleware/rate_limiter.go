package middleware

import (
	"net/http"
	"strconv"
	"sync"

	"booth-service/internal/auth"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	headerRateLimit     = "X-RateLimit-Limit"
	headerRateRemaining = "X-RateLimit-Remaining"
	headerRetryAfter    = "Retry-After"
	msgRateLimited      = "rate limit exceeded"
)

// RateLimiter implements token bucket rate limiting per identity
type RateLimiter struct {
	limiters sync.Map // key -> *rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewRateLimiter creates a new rate limiter
// requestsPerSecond: number of requests allowed per second
// burst: maximum burst size
func NewRateLimiter(requestsPerSecond int, burst int) *RateLimiter {
	return &RateLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, ok := rl.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	return limiter.(*rate.Limiter)
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware returns an Echo middleware function for rate limiting.
// Authenticated owners are limited per user, everything else per client IP.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := rl.getLimiter(identityKey(c))
			limit := strconv.Itoa(rl.burst)

			if !limiter.Allow() {
				c.Response().Header().Set(headerRateLimit, limit)
				c.Response().Header().Set(headerRateRemaining, "0")
				c.Response().Header().Set(headerRetryAfter, "1")

				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": msgRateLimited,
				})
			}

			c.Response().Header().Set(headerRateLimit, limit)
			c.Response().Header().Set(headerRateRemaining, strconv.Itoa(int(limiter.Tokens())))

			return next(c)
		}
	}
}

func identityKey(c echo.Context) string {
	switch auth.GetAuthType(c) {
	case auth.AuthTypeJWT:
		if userID, err := auth.GetUserID(c); err == nil {
			return "user:" + userID
		}
	case auth.AuthTypeAdmin:
		return "admin:" + c.RealIP()
	}
	return "ip:" + c.RealIP()
}

// StrictRateLimiter guards the public token endpoints (downloads,
// selection pages, webhooks) where the token is the only credential.
type StrictRateLimiter struct {
	*RateLimiter
}

func NewStrictRateLimiter() *StrictRateLimiter {
	return &StrictRateLimiter{
		RateLimiter: NewRateLimiter(5, 10), // 5 req/sec, burst of 10
	}
}

// GlobalRateLimiter is a lenient rate limiter for general API usage
type GlobalRateLimiter struct {
	*RateLimiter
}

func NewGlobalRateLimiter() *GlobalRateLimiter {
	return &GlobalRateLimiter{
		RateLimiter: NewRateLimiter(100, 200), // 100 req/sec, burst of 200
	}
}

package api

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"

	"github.com/inovelapp/inovel-server/internal/ratelimit"
)

// RateLimiter wraps KeyedRateLimiter for API use.
type RateLimiter = ratelimit.KeyedRateLimiter

// limiterIdleTTL is how long an IP's bucket survives without requests.
const limiterIdleTTL = 10 * time.Minute

// NewRateLimiter creates a limiter that allows perMinute requests per
// minute with the given burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	rps := float64(perMinute) / time.Minute.Seconds()
	return ratelimit.New(rps, burst, limiterIdleTTL)
}

// RateLimitMiddleware returns a huma operation middleware that limits
// requests by client IP and answers 429 Too Many Requests when the limit is
// exceeded.
func RateLimitMiddleware(api huma.API, limiter *RateLimiter, logger *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		r, _ := humachi.Unwrap(ctx)
		key := getClientIP(r)

		if !limiter.Allow(key) {
			logger.Warn("Rate limit exceeded",
				"ip", key,
				"path", r.URL.Path,
			)
			retry := int(math.Ceil(limiter.RetryAfter(key).Seconds()))
			ctx.SetHeader("Retry-After", strconv.Itoa(max(retry, 1)))
			_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "too many requests, please try again later")
			return
		}

		next(ctx)
	}
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

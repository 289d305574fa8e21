package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/shelterops/facility-checkins/internal/web/response"
)

// RateLimit returns a fixed-window limiter backed by Redis, keyed by client
// IP and route. It guards the token endpoint against credential stuffing;
// limit requests per window are allowed, the rest get 429. When rdb is nil
// (Redis unreachable at startup) or Redis errors mid-flight, the limiter
// fails open so an outage never blocks logins.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) echo.MiddlewareFunc {
	if rdb == nil || limit <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			slot := time.Now().Unix() / int64(window/time.Second)
			key := fmt.Sprintf("rl:%s:%s:%d", c.RealIP(), c.Path(), slot)

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				c.Logger().Warnf("ratelimit: redis incr failed: %v", err)
				return next(c)
			}
			if n == 1 {
				rdb.Expire(ctx, key, window)
			}
			if n > int64(limit) {
				c.Response().Header().Set("Retry-After", strconv.FormatInt(int64(window/time.Second), 10))
				return response.Error(c, http.StatusTooManyRequests,
					"Too many requests", "middleware.ratelimit")
			}
			return next(c)
		}
	}
}

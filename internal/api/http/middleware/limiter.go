package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	fiberredis "github.com/gofiber/storage/redis/v3"
	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/dentalcenter/config"
)

// NewLimiter is a sliding-window rate limiter. Counters live in redis when
// rdb is set and in process memory otherwise.
func NewLimiter(cfg config.RateLimit, rdb *redis.Client) fiber.Handler {
	lc := limiter.Config{
		Max:               cfg.Max,
		Expiration:        time.Duration(cfg.ExpirationSeconds) * time.Second,
		LimiterMiddleware: limiter.SlidingWindow{},
	}
	if lc.Max <= 0 {
		lc.Max = 20
	}
	if lc.Expiration <= 0 {
		lc.Expiration = 30 * time.Second
	}
	if rdb != nil {
		lc.Storage = fiberredis.NewFromConnection(rdb)
	}
	return limiter.New(lc)
}

package security

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/redis/go-redis/v9"
)

type RateLimiter struct {
	redis *redis.Client
}

func NewRateLimiter(redisClient *redis.Client) *RateLimiter {
	return &RateLimiter{redis: redisClient}
}

// Limit returns a route middleware allowing at most max requests per
// window per client. Authenticated requests are counted per account,
// anonymous ones per IP. Redis errors fail open so a counter outage
// never blocks registrations.
func (r *RateLimiter) Limit(name string, max int64, window time.Duration) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		identity := e.RealIP()
		if e.Auth != nil {
			identity = "user:" + e.Auth.Id
		}
		key := fmt.Sprintf("ratelimit:%s:%s", name, identity)

		ctx := e.Request.Context()
		count, err := r.redis.Incr(ctx, key).Result()
		if err != nil {
			return e.Next()
		}
		if count == 1 {
			r.redis.Expire(ctx, key, window)
		}
		if count > max {
			return apis.NewTooManyRequestsError("Rate limit exceeded. Please try again later.", nil)
		}

		return e.Next()
	}
}

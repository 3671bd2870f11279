// Package ratelimiter throttles expensive routes with a token bucket per
// client key.
//
// A bucket holds up to Capacity tokens and gains RefillRate tokens every
// RefillInterval. Each request takes one token; a request that finds too
// few tokens is denied without consuming any.
//
// Two stores are provided. MemoryStore keeps buckets in process and suits a
// single replica. RedisStore runs the same algorithm atomically in a Lua
// script so replicas share one budget per client.
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewRedisStore(client, "mailcraft:rl:"), cfg)
//	if err != nil {
//		return err
//	}
//	r.With(ratelimiter.Middleware(limiter, ratelimiter.ByClientIP)).Post("/generate-email", h)
//
// Denied requests receive 429 with the API error envelope and a Retry-After
// header. X-RateLimit-Limit, X-RateLimit-Remaining and X-RateLimit-Reset are
// set on every response.
package ratelimiter

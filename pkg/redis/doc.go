// Package redis provides helpers for connecting to Redis and using it as a
// small namespaced key-value store.
//
// The package wraps go-redis and adds:
//
//   - Connect, which retries the initial ping using the supplied configuration.
//   - Storage, a context-aware key-value wrapper with a key prefix and an
//     atomic Take for one-time values.
//   - Healthcheck, a closure suitable for readiness probes.
//
// Redis is optional for the service: Config.Enabled reports whether a URL is
// configured, and callers choose in-memory stores otherwise.
//
//	var cfg redis.Config
//	_ = config.Load(&cfg)
//
//	if cfg.Enabled() {
//	    client, err := redis.Connect(ctx, cfg)
//	    if err != nil {
//	        return err
//	    }
//	    store := redis.NewStorage(client, cfg.KeyPrefix)
//	    _ = store.Set(ctx, "oauth_state:abc", []byte("1"), 10*time.Minute)
//	}
//
// # Error Handling
//
// Missing keys surface as ErrKeyNotFound. Connect failures are joined with
// ErrNotReady and failed health pings with ErrUnavailable.
package redis

package redis

import "time"

// Config for the Redis connection. An empty ConnectionURL means Redis is not
// configured and callers fall back to in-memory stores.
type Config struct {
	ConnectionURL  string        `env:"REDIS_URL"`                                // redis://:password@localhost:6379/0
	KeyPrefix      string        `env:"REDIS_KEY_PREFIX" envDefault:"mailcraft:"` // prepended to every key written through Storage
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
}

// Enabled reports whether a connection URL is set.
func (c Config) Enabled() bool {
	return c.ConnectionURL != ""
}

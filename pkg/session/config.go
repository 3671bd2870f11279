package session

import "time"

// Config holds session settings.
type Config struct {
	// EncryptionKey is the base64 master key refresh tokens are sealed with.
	EncryptionKey   string        `env:"SESSION_ENCRYPTION_KEY,required"`
	TTL             time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"10m"`
	KeyPrefix       string        `env:"SESSION_KEY_PREFIX" envDefault:"session:"`
}

package httpserver

import "time"

// Config holds listener settings. WriteTimeout must stay above the language
// model timeout, since generation responses are written only after the model
// answers.
type Config struct {
	Addr              string        `env:"HTTP_ADDR" envDefault:":8000"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"10s"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"60s"` // multipart uploads with images
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"3m"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

func (c Config) withDefaults() Config {
	if c.Addr == "" {
		c.Addr = ":8000"
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 15 * time.Second
	}
	return c
}

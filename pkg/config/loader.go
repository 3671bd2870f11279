package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Option tweaks a single Load call.
type Option func(*loadOptions)

type loadOptions struct {
	envFiles    []string
	environment map[string]string
	prefix      string
}

// WithEnvFiles loads the given dotenv files before parsing.
// Missing files are ignored; existing process variables always win.
func WithEnvFiles(paths ...string) Option {
	return func(o *loadOptions) {
		o.envFiles = paths
	}
}

// WithEnvironment parses from the given map instead of the process environment.
// Dotenv files are skipped.
func WithEnvironment(vars map[string]string) Option {
	return func(o *loadOptions) {
		o.environment = vars
	}
}

// WithPrefix prepends prefix to every env tag.
func WithPrefix(prefix string) Option {
	return func(o *loadOptions) {
		o.prefix = prefix
	}
}

// Load fills v from environment variables based on its `env` struct tags.
// By default the .env file in the working directory is read first if present.
//
// Example:
//
//	type DatabaseConfig struct {
//		URL      string `env:"DATABASE_URL,required"`
//		MaxConns int32  `env:"DATABASE_MAX_CONNS" envDefault:"10"`
//	}
//
//	var cfg DatabaseConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := loadOptions{envFiles: []string{".env"}}
	for _, opt := range opts {
		opt(&o)
	}

	envOpts := env.Options{Prefix: o.prefix}
	if o.environment != nil {
		envOpts.Environment = o.environment
	} else {
		for _, path := range o.envFiles {
			if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return errors.Join(ErrEnvFile, fmt.Errorf("%s: %w", path, err))
			}
		}
	}

	if err := env.ParseWithOptions(v, envOpts); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// Intended for main packages where a bad configuration should stop startup.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Package config loads typed configuration structs from environment variables.
//
// Every package that needs settings declares its own struct with `env` tags
// (see github.com/caarlos0/env). The application composes them and calls Load
// once at startup, then passes the values down explicitly:
//
//	type Config struct {
//		HTTP  httpserver.Config
//		DB    pg.Config
//		Redis redis.Config
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// A .env file in the working directory is read before parsing when it exists.
// Variables already present in the process environment take precedence.
// WithEnvironment swaps the process environment for a map, which keeps tests
// hermetic:
//
//	err := config.Load(&cfg, config.WithEnvironment(map[string]string{
//		"DATABASE_URL": "postgres://localhost/test",
//	}))
//
// # Error Handling
//
// Parse failures, including missing required variables, match
// ErrParsingConfig. An unreadable dotenv file matches ErrEnvFile.
package config

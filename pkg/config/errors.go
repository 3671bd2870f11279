package config

import "errors"

var (
	ErrParsingConfig = errors.New("config: parse environment")
	// ErrEnvFile means a dotenv file exists but could not be read.
	ErrEnvFile    = errors.New("config: load env file")
	ErrNilPointer = errors.New("config: nil target")
)

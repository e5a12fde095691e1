package config

import "errors"

var (
	// ErrInvalidConfig wraps every Validate failure, e.g. an unknown database driver.
	ErrInvalidConfig = errors.New("invalid item service configuration")
	// ErrLoadConfig wraps failures reading the YAML file, .env file or environment.
	ErrLoadConfig = errors.New("cannot load item service configuration")
)

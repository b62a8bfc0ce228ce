// File: lixenwraith/setting/store/errors.go
package store

import "errors"

// MaxValueSize limits a single environment or command-line value.
const MaxValueSize = 1 << 20

// DefaultMaxFileSize limits configuration files read by LoadFile.
const DefaultMaxFileSize = 10 << 20

var (
	// ErrConfigNotFound indicates the configuration file does not exist. It is not fatal.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrCLIParse wraps failures parsing command-line arguments.
	ErrCLIParse = errors.New("failed to parse command-line arguments")

	// ErrValueSize is returned for environment or command-line values over MaxValueSize.
	ErrValueSize = errors.New("value size exceeds maximum")
)

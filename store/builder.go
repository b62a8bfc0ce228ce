// File: lixenwraith/setting/store/builder.go
package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ValidatorFunc validates a fully loaded Store.
type ValidatorFunc func(s *Store) error

// Builder provides a fluent interface for building a Store
type Builder struct {
	store      *Store
	opts       LoadOptions
	defaults   any
	prefix     string
	file       string
	discovery  *FileDiscoveryOptions
	args       []string
	validators []ValidatorFunc
}

// NewBuilder creates a new store builder reading os.Args[1:] by default
func NewBuilder() *Builder {
	return &Builder{
		store: New(),
		opts:  DefaultLoadOptions(),
		args:  os.Args[1:],
	}
}

// WithDefaults sets the struct containing default values
func (b *Builder) WithDefaults(defaults any) *Builder {
	b.defaults = defaults
	return b
}

// WithPrefix sets the path prefix for struct registration
func (b *Builder) WithPrefix(prefix string) *Builder {
	b.prefix = prefix
	return b
}

// WithEnvPrefix sets the environment variable prefix
func (b *Builder) WithEnvPrefix(prefix string) *Builder {
	b.opts.EnvPrefix = prefix
	return b
}

// WithFile sets the settings file path
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithFileDiscovery searches for the settings file at Build time when no file was set
func (b *Builder) WithFileDiscovery(opts FileDiscoveryOptions) *Builder {
	b.discovery = &opts
	return b
}

// WithFileFormat forces the settings file format ("toml", "json", "yaml")
func (b *Builder) WithFileFormat(format string) *Builder {
	b.opts.FileFormat = format
	return b
}

// WithArgs sets the command-line arguments
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithSources sets the precedence order for sources
func (b *Builder) WithSources(sources ...Source) *Builder {
	b.opts.Sources = sources
	return b
}

// WithEnvTransform sets a custom environment variable transformer
func (b *Builder) WithEnvTransform(fn EnvTransformFunc) *Builder {
	b.opts.EnvTransform = fn
	return b
}

// WithEnvWhitelist limits which paths are checked for env vars
func (b *Builder) WithEnvWhitelist(paths ...string) *Builder {
	if b.opts.EnvWhitelist == nil {
		b.opts.EnvWhitelist = make(map[string]bool)
	}
	for _, path := range paths {
		b.opts.EnvWhitelist[path] = true
	}
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the Store. A missing settings file is returned as ErrConfigNotFound
// together with a usable Store.
func (b *Builder) Build() (*Store, error) {
	if b.defaults != nil {
		if err := b.store.RegisterStruct(b.prefix, b.defaults); err != nil {
			return nil, fmt.Errorf("failed to register defaults: %w", err)
		}
	}

	file := b.file
	if file == "" && b.discovery != nil {
		file = DiscoverFile(*b.discovery, b.args)
	}

	loadErr := b.store.LoadWithOptions(file, b.args, b.opts)
	if loadErr != nil && !errors.Is(loadErr, ErrConfigNotFound) {
		return nil, loadErr
	}

	for _, validator := range b.validators {
		if err := validator(b.store); err != nil {
			return nil, fmt.Errorf("settings validation failed: %w", err)
		}
	}

	// ErrConfigNotFound or nil
	return b.store, loadErr
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Store {
	s, err := b.Build()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		panic(fmt.Sprintf("settings store build failed: %v", err))
	}
	return s
}

// Quick builds a Store from defaults, environment (envPrefix), file and os.Args
// with the standard precedence.
func Quick(defaults any, envPrefix, file string) (*Store, error) {
	return NewBuilder().
		WithDefaults(defaults).
		WithEnvPrefix(envPrefix).
		WithFile(file).
		Build()
}

// Required returns a validator failing when any path has no value from a source
// other than its default.
func Required(paths ...string) ValidatorFunc {
	return func(s *Store) error {
		s.mutex.RLock()
		defer s.mutex.RUnlock()

		var missing []string
		for _, path := range paths {
			it, exists := s.items[path]
			if !exists {
				missing = append(missing, path+" (not registered)")
				continue
			}
			hasValue := false
			for _, val := range it.values {
				if val != nil {
					hasValue = true
					break
				}
			}
			if !hasValue {
				missing = append(missing, path)
			}
		}

		if len(missing) > 0 {
			return fmt.Errorf("missing required settings: %s", strings.Join(missing, ", "))
		}
		return nil
	}
}

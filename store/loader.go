// FILE: lixenwraith/setting/store/loader.go
package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvTransformFunc converts a configuration path to an environment variable name
type EnvTransformFunc func(path string) string

// LoadOptions configures how settings are loaded from multiple sources
type LoadOptions struct {
	// Sources defines the precedence order (first = highest priority)
	// Default: [SourceCLI, SourceEnv, SourceFile, SourceDefault]
	Sources []Source

	// EnvPrefix is prepended to environment variable names
	// Example: "MYAPP_" transforms "Db.Timeout" to "MYAPP_DB_TIMEOUT"
	EnvPrefix string

	// EnvTransform customizes how paths map to environment variables
	// If nil, uses default transformation (dots to underscores, uppercase)
	EnvTransform EnvTransformFunc

	// EnvWhitelist limits which paths are checked for env vars (nil = all registered)
	EnvWhitelist map[string]bool

	// FileFormat forces "toml", "json" or "yaml"; empty or "auto" detects it
	FileFormat string

	// MaxFileSize caps configuration file reads (0 = DefaultMaxFileSize)
	MaxFileSize int64
}

// DefaultLoadOptions returns the standard load options
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		Sources:     []Source{SourceCLI, SourceEnv, SourceFile, SourceDefault},
		MaxFileSize: DefaultMaxFileSize,
	}
}

// LoadWithOptions loads settings from every source in opts.Sources.
// A missing file is reported as ErrConfigNotFound alongside any other non-fatal errors.
func (s *Store) LoadWithOptions(filePath string, args []string, opts LoadOptions) error {
	if len(opts.Sources) == 0 {
		opts.Sources = DefaultLoadOptions().Sources
	}

	s.mutex.Lock()
	s.options = opts
	// Precedence may have changed
	for path, it := range s.items {
		it.currentValue = s.computeValue(it)
		s.items[path] = it
	}
	s.mutex.Unlock()

	var loadErrors []error

	for _, source := range opts.Sources {
		switch source {
		case SourceDefault:
			// Defaults are already in place from Register calls
			continue

		case SourceFile:
			if filePath != "" {
				if err := s.loadFile(filePath, opts); err != nil {
					if errors.Is(err, ErrConfigNotFound) {
						loadErrors = append(loadErrors, err)
					} else {
						return err // Fatal error
					}
				}
			}

		case SourceEnv:
			if err := s.loadEnv(opts); err != nil {
				loadErrors = append(loadErrors, err)
			}

		case SourceCLI:
			if len(args) > 0 {
				if err := s.loadCLI(args); err != nil {
					loadErrors = append(loadErrors, err)
				}
			}
		}
	}

	return errors.Join(loadErrors...)
}

// LoadFile loads settings from a TOML, JSON or YAML file
func (s *Store) LoadFile(filePath string) error {
	s.mutex.RLock()
	opts := s.options
	s.mutex.RUnlock()

	return s.loadFile(filePath, opts)
}

// LoadEnv loads registered paths from environment variables
func (s *Store) LoadEnv(prefix string) error {
	s.mutex.RLock()
	opts := s.options
	s.mutex.RUnlock()

	opts.EnvPrefix = prefix
	return s.loadEnv(opts)
}

// LoadCLI loads settings from command-line arguments
func (s *Store) LoadCLI(args []string) error {
	return s.loadCLI(args)
}

// loadFile reads and parses a configuration file. Every leaf of the file becomes
// a path, registered or not.
func (s *Store) loadFile(path string, opts LoadOptions) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrConfigNotFound
		}
		return fmt.Errorf("failed to stat config file '%s': %w", path, err)
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if fileInfo.Size() > maxSize {
		return fmt.Errorf("config file '%s' exceeds maximum size %d bytes", path, maxSize)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file '%s': %w", path, err)
	}
	defer file.Close()

	fileData, err := io.ReadAll(io.LimitReader(file, maxSize))
	if err != nil {
		return fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	// Determine format
	format := opts.FileFormat
	if format == "" || format == "auto" {
		format = detectFileFormat(path)
		if format == "" {
			format = detectFormatFromContent(fileData)
		}
	}

	fileConfig, err := decodeFile(format, fileData)
	if err != nil {
		return fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}

	flat := flattenMap(fileConfig, "")

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.filePath = path
	s.applySource(SourceFile, flat)
	return nil
}

// decodeFile parses data in the given format into a nested map
func decodeFile(format string, data []byte) (map[string]any, error) {
	fileConfig := make(map[string]any)
	switch format {
	case "toml":
		if err := toml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("invalid TOML: %w", err)
		}
	case "json":
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&fileConfig); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unable to determine config format %q", format)
	}
	return fileConfig, nil
}

// loadEnv loads registered paths from environment variables
func (s *Store) loadEnv(opts LoadOptions) error {
	transform := opts.EnvTransform
	if transform == nil {
		transform = defaultEnvTransform(opts.EnvPrefix)
	}

	// -- 1. Prepare data (Read-Lock to get paths)
	s.mutex.RLock()
	paths := make([]string, 0, len(s.items))
	for p, it := range s.items {
		if it.registered {
			paths = append(paths, p)
		}
	}
	s.mutex.RUnlock()

	// -- 2. Process env vars (No Lock)
	found := make(map[string]any)
	for _, path := range paths {
		if opts.EnvWhitelist != nil && !opts.EnvWhitelist[path] {
			continue
		}

		envVar := transform(path)
		if envVar == "" {
			continue
		}
		if value, exists := os.LookupEnv(envVar); exists {
			if len(value) > MaxValueSize {
				return fmt.Errorf("%w: %s", ErrValueSize, envVar)
			}
			found[path] = value
		}
	}

	// -- 3. Atomically update (Write-Lock)
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.applySource(SourceEnv, found)
	return nil
}

// loadCLI loads settings from command-line arguments
func (s *Store) loadCLI(args []string) error {
	parsed, err := parseArgs(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCLIParse, err)
	}

	if len(parsed) == 0 {
		return nil
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.applySource(SourceCLI, parsed)
	return nil
}

// DiscoverEnv finds the environment variables matching registered paths
// and returns a map of path -> env var name
func (s *Store) DiscoverEnv(prefix string) map[string]string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	transform := s.options.EnvTransform
	if transform == nil {
		transform = defaultEnvTransform(prefix)
	}

	discovered := make(map[string]string)
	for path, it := range s.items {
		if !it.registered {
			continue
		}
		envVar := transform(path)
		if _, exists := os.LookupEnv(envVar); exists {
			discovered[path] = envVar
		}
	}

	return discovered
}

// defaultEnvTransform creates the default environment variable transformer
func defaultEnvTransform(prefix string) EnvTransformFunc {
	return func(path string) string {
		env := strings.ReplaceAll(path, ".", "_")
		env = strings.ToUpper(env)
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}

// parseArgs processes command-line arguments into flat path -> string values.
// Supported forms are "--key=value", "--key value" and "--flag" (true).
func parseArgs(args []string) (map[string]any, error) {
	result := make(map[string]any)
	i := 0
	for i < len(args) {
		arg := args[i]
		if !strings.HasPrefix(arg, "--") {
			// Skip non-flag arguments
			i++
			continue
		}

		argContent := strings.TrimPrefix(arg, "--")
		if argContent == "" {
			// Skip "--" argument if used as a separator
			i++
			continue
		}

		var keyPath string
		var valueStr string

		if key, value, hasValue := strings.Cut(argContent, "="); hasValue {
			keyPath = key
			valueStr = value
			i++
		} else {
			keyPath = argContent
			// Boolean flag if the next arg is another flag or there is none
			if i+1 >= len(args) || strings.HasPrefix(args[i+1], "--") {
				valueStr = "true"
				i++
			} else {
				valueStr = args[i+1]
				i += 2
			}
		}

		if keyPath == "" {
			// Skip invalid flags like --=value
			continue
		}

		if !validatePath(keyPath) {
			return nil, fmt.Errorf("invalid command-line key %q", keyPath)
		}
		if len(valueStr) > MaxValueSize {
			return nil, fmt.Errorf("%w: --%s", ErrValueSize, keyPath)
		}

		// Always store as a string; the resolver converts
		result[keyPath] = valueStr
	}

	return result, nil
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml", ".tml":
		return "toml"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return ""
	}
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// Try JSON first (strict format)
	var jsonTest map[string]any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return "json"
	}

	// TOML before YAML: simple key = value lines are not valid YAML mappings
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return "toml"
	}

	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return "yaml"
	}

	return ""
}

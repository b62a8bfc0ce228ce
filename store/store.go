// File: lixenwraith/setting/store/store.go
package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Source represents a configuration source, used to define load precedence
type Source string

const (
	// SourceDefault represents use of registered default values
	SourceDefault Source = "default"
	// SourceFile represents values loaded from a configuration file
	SourceFile Source = "file"
	// SourceEnv represents values loaded from environment variables
	SourceEnv Source = "env"
	// SourceCLI represents values loaded from command-line arguments
	SourceCLI Source = "cli"
)

// item holds the per-source values of one path
type item struct {
	registered   bool
	defaultValue any
	values       map[Source]any
	currentValue any
}

// Store holds settings keyed by dot-separated path.
type Store struct {
	items    map[string]item
	options  LoadOptions
	filePath string
	mutex    sync.RWMutex
}

// New creates an empty Store with DefaultLoadOptions.
func New() *Store {
	return NewWithOptions(DefaultLoadOptions())
}

// NewWithOptions creates an empty Store with the given load options.
func NewWithOptions(opts LoadOptions) *Store {
	if len(opts.Sources) == 0 {
		opts.Sources = DefaultLoadOptions().Sources
	}
	return &Store{
		items:   make(map[string]item),
		options: opts,
	}
}

// Register makes a path known to the store with a default value.
// Registered paths take part in environment loading and are reported as present
// even when only the default is set.
func (s *Store) Register(path string, defaultValue any) error {
	if !validatePath(path) {
		return fmt.Errorf("invalid registration path %q", path)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	it := s.items[path]
	it.registered = true
	it.defaultValue = defaultValue
	it.currentValue = s.computeValue(it)
	s.items[path] = it

	return nil
}

// Unregister removes a path and all its children.
func (s *Store) Unregister(path string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	prefix := path + "."
	removed := false
	for p := range s.items {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(s.items, p)
			removed = true
		}
	}
	if !removed {
		return fmt.Errorf("path not registered: %s", path)
	}
	return nil
}

// Get returns the effective value of path and whether the path is known.
func (s *Store) Get(path string) (any, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	it, exists := s.items[path]
	if !exists {
		return nil, false
	}
	return it.currentValue, true
}

// GetSource returns the value a single source holds for path.
func (s *Store) GetSource(path string, source Source) (any, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	it, exists := s.items[path]
	if !exists {
		return nil, false
	}
	if source == SourceDefault {
		return it.defaultValue, it.registered
	}
	v, ok := it.values[source]
	return v, ok
}

// Lookup implements setting.Lookup. Missing paths are reported as not found.
func (s *Store) Lookup(name string) (any, bool, error) {
	v, found := s.Get(name)
	return v, found, nil
}

// Set stores value for path in the highest-precedence source.
func (s *Store) Set(path string, value any) error {
	s.mutex.RLock()
	source := s.options.Sources[0]
	s.mutex.RUnlock()

	return s.SetSource(source, path, value)
}

// SetSource stores value for path in the given source and recomputes the effective value.
// Unknown paths are added without a default.
func (s *Store) SetSource(source Source, path string, value any) error {
	if !validatePath(path) {
		return fmt.Errorf("invalid path %q", path)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	it := s.items[path]
	if source == SourceDefault {
		it.registered = true
		it.defaultValue = value
	} else {
		if it.values == nil {
			it.values = make(map[Source]any)
		}
		it.values[source] = value
	}
	it.currentValue = s.computeValue(it)
	s.items[path] = it

	return nil
}

// Paths returns the sorted paths that start with prefix.
func (s *Store) Paths(prefix string) []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	paths := make([]string, 0, len(s.items))
	for p := range s.items {
		if strings.HasPrefix(p, prefix) {
			paths = append(paths, p)
		}
	}
	sort.Strings(paths)
	return paths
}

// Name returns "store".
func (s *Store) Name() string {
	return "store"
}

// FilePath returns the path of the last loaded configuration file.
func (s *Store) FilePath() string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.filePath
}

// computeValue picks the value of the highest-precedence source. Callers hold the lock.
func (s *Store) computeValue(it item) any {
	for _, source := range s.options.Sources {
		if source == SourceDefault {
			if it.registered {
				return it.defaultValue
			}
			continue
		}
		if v, ok := it.values[source]; ok {
			return v
		}
	}
	return it.defaultValue
}

// applySource replaces every value of one source, dropping unregistered paths left empty.
// Callers hold the write lock.
func (s *Store) applySource(source Source, data map[string]any) {
	for path, it := range s.items {
		if _, ok := data[path]; ok {
			continue
		}
		if _, had := it.values[source]; !had {
			continue
		}
		delete(it.values, source)
		if !it.registered && len(it.values) == 0 {
			delete(s.items, path)
			continue
		}
		it.currentValue = s.computeValue(it)
		s.items[path] = it
	}

	for path, value := range data {
		it := s.items[path]
		if it.values == nil {
			it.values = make(map[Source]any)
		}
		it.values[source] = value
		it.currentValue = s.computeValue(it)
		s.items[path] = it
	}
}

// File: lixenwraith/setting/store/io.go
package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Save writes the effective value of every path to a TOML file atomically.
func (s *Store) Save(path string) error {
	s.mutex.RLock()
	nestedData := make(map[string]any)
	for itemPath, it := range s.items {
		if it.currentValue != nil {
			setNestedValue(nestedData, itemPath, it.currentValue)
		}
	}
	s.mutex.RUnlock()

	return saveTOML(path, nestedData)
}

// SaveSource writes the values of a single source to a TOML file atomically.
func (s *Store) SaveSource(path string, source Source) error {
	s.mutex.RLock()
	nestedData := make(map[string]any)
	for itemPath, it := range s.items {
		if source == SourceDefault {
			if it.registered && it.defaultValue != nil {
				setNestedValue(nestedData, itemPath, it.defaultValue)
			}
			continue
		}
		if val, exists := it.values[source]; exists && val != nil {
			setNestedValue(nestedData, itemPath, val)
		}
	}
	s.mutex.RUnlock()

	return saveTOML(path, nestedData)
}

func saveTOML(path string, nestedData map[string]any) error {
	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	if err := encoder.Encode(nestedData); err != nil {
		return fmt.Errorf("failed to marshal settings to TOML: %w", err)
	}

	return atomicWriteFile(path, buf.Bytes())
}

// atomicWriteFile performs atomic file write
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", dir, err)
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tempPath := tempFile.Name()
	defer os.Remove(tempPath) // Clean up on any error

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := tempFile.Sync(); err != nil {
		tempFile.Close()
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}

	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

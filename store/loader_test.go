// FILE: lixenwraith/setting/store/loader_test.go
package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFileLoading tests TOML, JSON and YAML file loading
func TestFileLoading(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("ValidTOMLFile", func(t *testing.T) {
		configFile := filepath.Join(tmpDir, "valid.toml")
		content := `
# Database settings
[Db]
Timeout = "00:00:05"
Port = 5432
Enabled = true

[Db.TLS]
Cert = "/path/to/cert.pem"

[Cache]
Hosts = ["a", "b"]
`
		require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

		s := New()
		s.Register("Db.Port", 3306)

		require.NoError(t, s.LoadFile(configFile))
		assert.Equal(t, configFile, s.FilePath())

		timeout, found := s.Get("Db.Timeout")
		assert.True(t, found, "unregistered file keys are kept")
		assert.Equal(t, "00:00:05", timeout)

		port, _ := s.Get("Db.Port")
		assert.Equal(t, int64(5432), port)

		cert, _ := s.Get("Db.TLS.Cert")
		assert.Equal(t, "/path/to/cert.pem", cert)

		hosts, _ := s.Get("Cache.Hosts")
		assert.Equal(t, []any{"a", "b"}, hosts)
	})

	t.Run("ValidJSONFile", func(t *testing.T) {
		configFile := filepath.Join(tmpDir, "valid.json")
		require.NoError(t, os.WriteFile(configFile, []byte(`{"Db": {"Timeout": "00:00:05", "Port": 5432}}`), 0644))

		s := New()
		require.NoError(t, s.LoadFile(configFile))

		port, _ := s.Get("Db.Port")
		assert.Equal(t, json.Number("5432"), port)
	})

	t.Run("ValidYAMLFile", func(t *testing.T) {
		configFile := filepath.Join(tmpDir, "valid.yaml")
		require.NoError(t, os.WriteFile(configFile, []byte("Db:\n  Timeout: \"00:00:05\"\n  Port: 5432\n"), 0644))

		s := New()
		require.NoError(t, s.LoadFile(configFile))

		timeout, _ := s.Get("Db.Timeout")
		assert.Equal(t, "00:00:05", timeout)
		port, _ := s.Get("Db.Port")
		assert.Equal(t, 5432, port)
	})

	t.Run("ContentDetection", func(t *testing.T) {
		files := map[string]string{
			"json.conf": `{"a": {"b": "json"}}`,
			"toml.conf": "[a]\nb = \"toml\"\n",
			"yaml.conf": "a:\n  b: yaml\n",
		}
		for name, content := range files {
			configFile := filepath.Join(tmpDir, name)
			require.NoError(t, os.WriteFile(configFile, []byte(content), 0644))

			s := New()
			require.NoError(t, s.LoadFile(configFile), name)
			v, _ := s.Get("a.b")
			assert.Equal(t, strings.TrimSuffix(name, ".conf"), v)
		}
	})

	t.Run("InvalidTOMLFile", func(t *testing.T) {
		configFile := filepath.Join(tmpDir, "invalid.toml")
		require.NoError(t, os.WriteFile(configFile, []byte(`invalid = toml content`), 0644))

		err := New().LoadFile(configFile)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid TOML")
	})

	t.Run("NonExistentFile", func(t *testing.T) {
		err := New().LoadFile(filepath.Join(tmpDir, "missing.toml"))
		assert.ErrorIs(t, err, ErrConfigNotFound)
	})

	t.Run("FileTooLarge", func(t *testing.T) {
		configFile := filepath.Join(tmpDir, "large.toml")
		require.NoError(t, os.WriteFile(configFile, []byte(`key = "`+strings.Repeat("x", 64)+`"`), 0644))

		s := NewWithOptions(LoadOptions{MaxFileSize: 16})
		err := s.LoadFile(configFile)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds maximum size")
	})

	t.Run("ReloadDropsRemovedKeys", func(t *testing.T) {
		configFile := filepath.Join(tmpDir, "reload.toml")
		require.NoError(t, os.WriteFile(configFile, []byte("a = 1\nb = 2\n"), 0644))

		s := New()
		s.Register("b", int64(0))
		require.NoError(t, s.LoadFile(configFile))

		require.NoError(t, os.WriteFile(configFile, []byte("c = 3\n"), 0644))
		require.NoError(t, s.LoadFile(configFile))

		_, found := s.Get("a")
		assert.False(t, found)
		b, found := s.Get("b")
		assert.True(t, found, "registered paths survive")
		assert.Equal(t, int64(0), b)
		c, _ := s.Get("c")
		assert.Equal(t, int64(3), c)
	})
}

func TestEnvLoading(t *testing.T) {
	t.Setenv("TEST_DB_TIMEOUT", "00:01:00")
	t.Setenv("TEST_DB_HOST", "")
	t.Setenv("TEST_UNREGISTERED", "ignored")

	s := New()
	s.Register("Db.Timeout", "00:00:30")
	s.Register("Db.Host", "localhost")
	s.Register("Db.Port", 5432)

	require.NoError(t, s.LoadEnv("TEST_"))

	timeout, _ := s.Get("Db.Timeout")
	assert.Equal(t, "00:01:00", timeout)

	host, _ := s.Get("Db.Host")
	assert.Equal(t, "", host, "empty variable overrides the default")

	port, _ := s.Get("Db.Port")
	assert.Equal(t, 5432, port)

	_, found := s.Get("UNREGISTERED")
	assert.False(t, found)

	assert.Equal(t, map[string]string{
		"Db.Timeout": "TEST_DB_TIMEOUT",
		"Db.Host":    "TEST_DB_HOST",
	}, s.DiscoverEnv("TEST_"))

	t.Run("Whitelist", func(t *testing.T) {
		s := New()
		s.Register("Db.Timeout", "00:00:30")
		s.Register("Db.Host", "localhost")

		opts := DefaultLoadOptions()
		opts.EnvPrefix = "TEST_"
		opts.EnvWhitelist = map[string]bool{"Db.Timeout": true}
		require.NoError(t, s.LoadWithOptions("", nil, opts))

		host, _ := s.Get("Db.Host")
		assert.Equal(t, "localhost", host)
		timeout, _ := s.Get("Db.Timeout")
		assert.Equal(t, "00:01:00", timeout)
	})

	t.Run("ValueTooLarge", func(t *testing.T) {
		t.Setenv("BIG_VALUE", strings.Repeat("x", MaxValueSize+1))
		s := New()
		s.Register("value", "")
		assert.ErrorIs(t, s.LoadEnv("BIG_"), ErrValueSize)
	})
}

func TestCLILoading(t *testing.T) {
	s := New()
	s.Register("Db.Timeout", "00:00:30")

	args := []string{"serve", "--Db.Timeout=00:00:10", "--Db.Port", "6543", "--verbose", "--", "--Db.Name", "main"}
	require.NoError(t, s.LoadCLI(args))

	timeout, _ := s.Get("Db.Timeout")
	assert.Equal(t, "00:00:10", timeout)
	port, _ := s.Get("Db.Port")
	assert.Equal(t, "6543", port)
	verbose, _ := s.Get("verbose")
	assert.Equal(t, "true", verbose)
	name, _ := s.Get("Db.Name")
	assert.Equal(t, "main", name)

	t.Run("InvalidKey", func(t *testing.T) {
		err := New().LoadCLI([]string{"--bad key=1"})
		assert.ErrorIs(t, err, ErrCLIParse)
	})
}

func TestLoadWithOptions(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "app.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("[Db]\nTimeout = \"00:00:05\"\nHost = \"filehost\"\n"), 0644))
	t.Setenv("APP_DB_HOST", "envhost")

	s := New()
	s.Register("Db.Host", "localhost")
	s.Register("Db.Timeout", "00:00:30")

	opts := DefaultLoadOptions()
	opts.EnvPrefix = "APP_"
	require.NoError(t, s.LoadWithOptions(configFile, []string{"--Db.Timeout=00:00:01"}, opts))

	host, _ := s.Get("Db.Host")
	assert.Equal(t, "envhost", host)
	timeout, _ := s.Get("Db.Timeout")
	assert.Equal(t, "00:00:01", timeout)

	t.Run("MissingFileIsNotFatal", func(t *testing.T) {
		s := New()
		err := s.LoadWithOptions(filepath.Join(tmpDir, "nope.toml"), nil, DefaultLoadOptions())
		assert.True(t, errors.Is(err, ErrConfigNotFound))
	})
}

func TestSave(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "saved.toml")

	s := New()
	s.Register("Db.Host", "localhost")
	s.Register("Db.Port", int64(5432))
	s.SetSource(SourceCLI, "Db.Host", "clihost")

	require.NoError(t, s.Save(path))

	var saved map[string]any
	_, err := toml.DecodeFile(path, &saved)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"Db": map[string]any{"Host": "clihost", "Port": int64(5432)}}, saved)

	defaultsPath := filepath.Join(tmpDir, "defaults.toml")
	require.NoError(t, s.SaveSource(defaultsPath, SourceDefault))

	loaded := New()
	require.NoError(t, loaded.LoadFile(defaultsPath))
	host, _ := loaded.Get("Db.Host")
	assert.Equal(t, "localhost", host)
}

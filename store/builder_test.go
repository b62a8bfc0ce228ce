// FILE: lixenwraith/setting/store/builder_test.go
package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type appDefaults struct {
	Db struct {
		Host    string `toml:"Host"`
		Timeout string `toml:"Timeout"`
	} `toml:"Db"`
	Debug bool `toml:"Debug"`
}

func TestBuilder(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "app.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("[Db]\nHost = \"filehost\"\n"), 0644))

	defaults := appDefaults{}
	defaults.Db.Host = "localhost"
	defaults.Db.Timeout = "00:00:30"

	t.Run("FullChain", func(t *testing.T) {
		t.Setenv("APP_DB_TIMEOUT", "00:00:05")

		s, err := NewBuilder().
			WithDefaults(&defaults).
			WithEnvPrefix("APP_").
			WithFile(configFile).
			WithArgs([]string{"--Debug"}).
			Build()
		require.NoError(t, err)

		host, _ := s.Get("Db.Host")
		assert.Equal(t, "filehost", host)
		timeout, _ := s.Get("Db.Timeout")
		assert.Equal(t, "00:00:05", timeout)
		debug, _ := s.Get("Debug")
		assert.Equal(t, "true", debug)
	})

	t.Run("Prefix", func(t *testing.T) {
		s, err := NewBuilder().
			WithDefaults(defaults).
			WithPrefix("App").
			WithArgs(nil).
			Build()
		require.NoError(t, err)
		assert.Equal(t, []string{"App.Db.Host", "App.Db.Timeout", "App.Debug"}, s.Paths("App."))
	})

	t.Run("MissingFile", func(t *testing.T) {
		s, err := NewBuilder().
			WithDefaults(&defaults).
			WithFile(filepath.Join(tmpDir, "missing.toml")).
			WithArgs(nil).
			Build()
		assert.True(t, errors.Is(err, ErrConfigNotFound))
		require.NotNil(t, s)

		host, _ := s.Get("Db.Host")
		assert.Equal(t, "localhost", host)
	})

	t.Run("Sources", func(t *testing.T) {
		s, err := NewBuilder().
			WithDefaults(&defaults).
			WithFile(configFile).
			WithSources(SourceDefault, SourceFile).
			WithArgs(nil).
			Build()
		require.NoError(t, err)

		host, _ := s.Get("Db.Host")
		assert.Equal(t, "localhost", host)
	})

	t.Run("EnvTransform", func(t *testing.T) {
		t.Setenv("custom_db_host", "envhost")

		s, err := NewBuilder().
			WithDefaults(&defaults).
			WithEnvTransform(func(path string) string {
				if path == "Db.Host" {
					return "custom_db_host"
				}
				return ""
			}).
			WithArgs(nil).
			Build()
		require.NoError(t, err)

		host, _ := s.Get("Db.Host")
		assert.Equal(t, "envhost", host)
	})

	t.Run("Validator", func(t *testing.T) {
		var calls []string
		_, err := NewBuilder().
			WithDefaults(&defaults).
			WithArgs(nil).
			WithValidator(func(s *Store) error {
				calls = append(calls, "first")
				return nil
			}).
			WithValidator(nil).
			WithValidator(func(s *Store) error {
				calls = append(calls, "second")
				if host, _ := s.Get("Db.Host"); host == "localhost" {
					return errors.New("host must be set")
				}
				return nil
			}).
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "host must be set")
		assert.Equal(t, []string{"first", "second"}, calls)
	})

	t.Run("Required", func(t *testing.T) {
		_, err := NewBuilder().
			WithDefaults(&defaults).
			WithFile(configFile).
			WithArgs(nil).
			WithValidator(Required("Db.Host", "Db.Timeout", "Db.Name")).
			Build()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing required settings: Db.Timeout, Db.Name (not registered)")

		_, err = NewBuilder().
			WithDefaults(&defaults).
			WithFile(configFile).
			WithArgs(nil).
			WithValidator(Required("Db.Host")).
			Build()
		assert.NoError(t, err)
	})

	t.Run("MustBuildPanics", func(t *testing.T) {
		assert.Panics(t, func() {
			NewBuilder().WithDefaults(42).WithArgs(nil).MustBuild()
		})
	})
}

func TestDiscoverFile(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("XDG_CONFIG_DIRS", filepath.Join(tmpDir, "none"))

	opts := DefaultDiscoveryOptions("myapp")
	opts.UseCurrentDir = false

	t.Run("NothingFound", func(t *testing.T) {
		assert.Empty(t, DiscoverFile(opts, nil))
	})

	t.Run("XDG", func(t *testing.T) {
		dir := filepath.Join(tmpDir, "xdg", "myapp")
		require.NoError(t, os.MkdirAll(dir, 0755))
		path := filepath.Join(dir, "myapp.yaml")
		require.NoError(t, os.WriteFile(path, []byte("a: 1\n"), 0644))

		assert.Equal(t, path, DiscoverFile(opts, nil))
	})

	t.Run("CustomPathFirst", func(t *testing.T) {
		dir := filepath.Join(tmpDir, "custom")
		require.NoError(t, os.MkdirAll(dir, 0755))
		path := filepath.Join(dir, "myapp.toml")
		require.NoError(t, os.WriteFile(path, []byte("a = 1\n"), 0644))

		custom := opts
		custom.Paths = []string{dir}
		assert.Equal(t, path, DiscoverFile(custom, nil))
	})

	t.Run("ExtensionOrderWithinDirectory", func(t *testing.T) {
		dir := filepath.Join(tmpDir, "both")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "myapp.json"), []byte(`{}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "myapp.toml"), []byte(""), 0644))

		custom := opts
		custom.Paths = []string{dir}
		assert.Equal(t, filepath.Join(dir, "myapp.toml"), DiscoverFile(custom, nil))
	})

	t.Run("EnvVar", func(t *testing.T) {
		t.Setenv("MYAPP_CONFIG", "/from/env.toml")
		assert.Equal(t, "/from/env.toml", DiscoverFile(opts, nil))
	})

	t.Run("CLIFlag", func(t *testing.T) {
		t.Setenv("MYAPP_CONFIG", "/from/env.toml")
		assert.Equal(t, "/from/cli.toml", DiscoverFile(opts, []string{"--config", "/from/cli.toml"}))
		assert.Equal(t, "/from/eq.toml", DiscoverFile(opts, []string{"--config=/from/eq.toml"}))
	})

	t.Run("Builder", func(t *testing.T) {
		s, err := NewBuilder().
			WithFileDiscovery(opts).
			WithArgs(nil).
			Build()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(tmpDir, "xdg", "myapp", "myapp.yaml"), s.FilePath())

		v, _ := s.Get("a")
		assert.Equal(t, 1, v)
	})
}

func TestQuick(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "quick.toml")
	require.NoError(t, os.WriteFile(configFile, []byte("[Db]\nTimeout = \"00:00:10\"\n"), 0644))
	t.Setenv("QUICK_DB_HOST", "envhost")

	defaults := appDefaults{}
	defaults.Db.Host = "localhost"
	defaults.Db.Timeout = "00:00:30"

	s, err := Quick(&defaults, "QUICK_", configFile)
	require.NoError(t, err)

	host, _ := s.Get("Db.Host")
	assert.Equal(t, "envhost", host)
	timeout, _ := s.Get("Db.Timeout")
	assert.Equal(t, "00:00:10", timeout)

	s, err = Quick(&defaults, "QUICK_", filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, ErrConfigNotFound)
	require.NotNil(t, s)
	timeout, _ = s.Get("Db.Timeout")
	assert.Equal(t, "00:00:30", timeout)
}

// FILE: lixenwraith/setting/store/discovery.go
package store

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// FileDiscoveryOptions describes where a settings file may live.
//
// An explicit location (CLIFlag, then EnvVar) is returned as given. Otherwise
// the search directories are tried in order: Paths, the working directory,
// then the XDG config directories. Within each directory every extension is
// tried before moving on, so app.toml in the working directory beats
// app.json under ~/.config.
type FileDiscoveryOptions struct {
	Name       string   // file name without extension
	Extensions []string // tried in order; each must carry its dot
	Paths      []string // searched before the standard directories
	EnvVar     string   // holds an explicit file path
	CLIFlag    string   // "--config path" or "--config=path"

	UseXDG        bool
	UseCurrentDir bool
}

// DefaultDiscoveryOptions looks for appName.{toml,json,yaml,yml} and honours
// --config and APPNAME_CONFIG.
func DefaultDiscoveryOptions(appName string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".toml", ".json", ".yaml", ".yml"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		CLIFlag:       "--config",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// DiscoverFile returns the settings file selected by opts, or "" when nothing matches.
// Explicit locations are not checked for existence: a wrong --config surfaces as
// ErrConfigNotFound at load time rather than as a silent fallback to defaults.
func DiscoverFile(opts FileDiscoveryOptions, args []string) string {
	if path := explicitFile(opts, args); path != "" {
		return path
	}

	for _, dir := range searchDirs(opts) {
		for _, ext := range opts.Extensions {
			candidate := filepath.Join(dir, opts.Name+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	return ""
}

// explicitFile returns a path named on the command line or in the environment
func explicitFile(opts FileDiscoveryOptions, args []string) string {
	if opts.CLIFlag != "" {
		if i := slices.Index(args, opts.CLIFlag); i >= 0 && i+1 < len(args) {
			return args[i+1]
		}
		for _, arg := range args {
			if value, ok := strings.CutPrefix(arg, opts.CLIFlag+"="); ok {
				return value
			}
		}
	}
	if opts.EnvVar != "" {
		return os.Getenv(opts.EnvVar)
	}
	return ""
}

func searchDirs(opts FileDiscoveryOptions) []string {
	dirs := slices.Clone(opts.Paths)
	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			dirs = append(dirs, cwd)
		}
	}
	if opts.UseXDG {
		dirs = append(dirs, xdgConfigDirs(opts.Name)...)
	}
	return dirs
}

// xdgConfigDirs lists $XDG_CONFIG_HOME/app (or ~/.config/app) followed by each
// $XDG_CONFIG_DIRS entry, defaulting to /etc/xdg/app and /etc/app.
func xdgConfigDirs(appName string) []string {
	var dirs []string

	switch home := os.Getenv("XDG_CONFIG_HOME"); {
	case home != "":
		dirs = append(dirs, filepath.Join(home, appName))
	case os.Getenv("HOME") != "":
		dirs = append(dirs, filepath.Join(os.Getenv("HOME"), ".config", appName))
	}

	system := filepath.SplitList(os.Getenv("XDG_CONFIG_DIRS"))
	if len(system) == 0 {
		system = []string{"/etc/xdg", "/etc"}
	}
	for _, dir := range system {
		dirs = append(dirs, filepath.Join(dir, appName))
	}
	return dirs
}

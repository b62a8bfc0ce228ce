// File: lixenwraith/setting/store/doc.go

// Package store is a flat, thread-safe settings store that an application can plug
// into a setting.Resolver as its lookup or fallback.
//
// Values are kept per source (defaults, file, environment, command line) and the
// effective value of a key is taken from the highest-precedence source that has
// one. Keys are dot-separated paths, the same shape setting.JoinName produces, so a
// TOML table [Db] with Timeout = "00:00:05" answers the lookup "Db.Timeout".
//
// Quick Start:
//
//	st, err := store.NewBuilder().
//	    WithDefaults(defaults).
//	    WithEnvPrefix("MYAPP_").
//	    WithFile("app.toml").
//	    Build()
//	if err != nil && !errors.Is(err, store.ErrConfigNotFound) {
//	    log.Fatal(err)
//	}
//
//	r := setting.New(st)
//
// Default Precedence (highest to lowest):
//  1. Command-line arguments (--Db.Timeout=00:00:05)
//  2. Environment variables (MYAPP_DB_TIMEOUT=00:00:05), registered paths only
//  3. Configuration file (TOML, JSON or YAML)
//  4. Registered defaults
//
// Values are stored raw; conversion is left to the resolver.
package store

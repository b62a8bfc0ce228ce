package lookup

import (
	"os"
	"strings"
)

// EnvTransformFunc converts a composed setting name to an environment variable name
type EnvTransformFunc func(name string) string

// Env looks settings up in the process environment.
// A variable that is set to the empty string is found.
type Env struct {
	transform EnvTransformFunc
}

// NewEnv creates an environment lookup using DefaultEnvTransform(prefix).
func NewEnv(prefix string) *Env {
	return &Env{transform: DefaultEnvTransform(prefix)}
}

// NewEnvWithTransform creates an environment lookup with a custom name mapping.
// A nil transform falls back to DefaultEnvTransform("").
func NewEnvWithTransform(fn EnvTransformFunc) *Env {
	if fn == nil {
		fn = DefaultEnvTransform("")
	}
	return &Env{transform: fn}
}

// Lookup implements setting.Lookup.
func (e *Env) Lookup(name string) (any, bool, error) {
	key := e.transform(name)
	if key == "" {
		return nil, false, nil
	}
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil, false, nil
	}
	return v, true, nil
}

// Name returns "env".
func (e *Env) Name() string {
	return "env"
}

// DefaultEnvTransform maps "Db.Timeout" to prefix + "DB_TIMEOUT"
func DefaultEnvTransform(prefix string) EnvTransformFunc {
	return func(name string) string {
		env := strings.ReplaceAll(name, ".", "_")
		env = strings.ToUpper(env)
		if prefix != "" {
			env = prefix + env
		}
		return env
	}
}

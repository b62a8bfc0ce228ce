// FILE: lixenwraith/setting/errors.go
package setting

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrLookupNotConfigured is returned when a resolver has neither a lookup nor a fallback store.
	ErrLookupNotConfigured = errors.New("setting lookup not configured")

	// ErrNilTargetType is returned when GetSetting is called without a target type.
	ErrNilTargetType = errors.New("setting target type is nil")

	// ErrCoercion is matched by every *CoercionError through errors.Is.
	ErrCoercion = errors.New("setting coercion failed")
)

// CoercionError reports a raw value that could not be converted to the requested type.
// It is only surfaced under PolicyStrict.
type CoercionError struct {
	Name  string       // Composed setting name, empty when coercing outside a resolver
	Value any          // Raw value as returned by the lookup
	Type  reflect.Type // Requested target type
	Err   error        // Underlying conversion error
}

func (e *CoercionError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("cannot convert setting %q value %v (%T) to %s: %v", e.Name, e.Value, e.Value, e.Type, e.Err)
	}
	return fmt.Sprintf("cannot convert value %v (%T) to %s: %v", e.Value, e.Value, e.Type, e.Err)
}

// Unwrap returns the underlying conversion error.
func (e *CoercionError) Unwrap() error {
	return e.Err
}

// Is reports ErrCoercion as a match so callers do not need errors.As for the common case.
func (e *CoercionError) Is(target error) bool {
	return target == ErrCoercion
}

// LookupError wraps a failure reported by the lookup capability itself.
// A missing key is never a LookupError.
type LookupError struct {
	Name string
	Err  error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup of setting %q failed: %v", e.Name, e.Err)
}

// Unwrap returns the error reported by the lookup.
func (e *LookupError) Unwrap() error {
	return e.Err
}

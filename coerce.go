// FILE: lixenwraith/setting/coerce.go
package setting

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Policy selects how coercion failures are handled.
type Policy int

const (
	// PolicyStrict returns coercion failures to the caller. It is the zero value.
	PolicyStrict Policy = iota

	// PolicyTolerant swallows coercion failures and substitutes the zero value of the
	// target type, or nil for pointer, map, slice, interface, func and chan types.
	// This hides misconfiguration: a malformed value is indistinguishable from an
	// explicit zero. Failures are only visible in the resolver's debug log.
	PolicyTolerant
)

func (p Policy) String() string {
	switch p {
	case PolicyStrict:
		return "strict"
	case PolicyTolerant:
		return "tolerant"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ConvertFunc converts a raw lookup value to the target type.
// A returned error is a coercion failure and is subject to the resolver's Policy.
type ConvertFunc func(raw any, target reflect.Type) (any, error)

var (
	uuidType     = reflect.TypeOf(uuid.UUID{})
	durationType = reflect.TypeOf(time.Duration(0))
	urlType      = reflect.TypeOf(url.URL{})
	urlPtrType   = reflect.TypeOf((*url.URL)(nil))
)

// Convert is the built-in ConvertFunc.
//
// String values bound for uuid.UUID, time.Duration, url.URL or *url.URL are trimmed
// and parsed by the matching special-case parser first. Anything those parsers
// reject, and every non-string value, goes through the generic decoder.
// A value whose dynamic type already equals target is returned unchanged.
func Convert(raw any, target reflect.Type) (any, error) {
	if target == nil {
		return nil, ErrNilTargetType
	}
	if s, ok := raw.(string); ok {
		if v, ok := convertSpecial(s, target); ok {
			return v, nil
		}
	}
	return convertGeneric(raw, target)
}

// Coerce converts raw to target and applies policy to the outcome.
// Under PolicyTolerant a failed conversion returns DefaultValue(target) and a nil error.
func Coerce(raw any, target reflect.Type, policy Policy) (any, error) {
	if target == nil {
		return nil, ErrNilTargetType
	}
	return coerceWith(Convert, "", raw, target, policy, nil)
}

// coerceWith runs convert and applies policy to a failure. onSuppress, if set,
// sees every failure PolicyTolerant swallows.
func coerceWith(convert ConvertFunc, name string, raw any, target reflect.Type, policy Policy, onSuppress func(error)) (any, error) {
	v, err := convert(raw, target)
	if err == nil {
		return v, nil
	}
	if policy == PolicyTolerant {
		if onSuppress != nil {
			onSuppress(err)
		}
		return DefaultValue(target), nil
	}
	return nil, &CoercionError{Name: name, Value: raw, Type: target, Err: err}
}

// DefaultValue returns the substitute used by PolicyTolerant: nil for reference
// kinds and the zero value for everything else.
func DefaultValue(target reflect.Type) any {
	if target == nil {
		return nil
	}
	switch target.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface,
		reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil
	}
	return reflect.Zero(target).Interface()
}

// convertSpecial handles the well-known string targets. ok is false when the
// target is not special or the string does not parse.
func convertSpecial(s string, target reflect.Type) (any, bool) {
	switch target {
	case uuidType:
		id, err := uuid.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, false
		}
		return id, true

	case durationType:
		d, err := ParseDuration(s)
		if err != nil {
			return nil, false
		}
		return d, true

	case urlType, urlPtrType:
		u, err := ParseURL(s)
		if err != nil {
			return nil, false
		}
		if target == urlType {
			return *u, true
		}
		return u, true
	}
	return nil, false
}

// ParseURL trims s and parses it as an absolute or relative URL.
// A protocol-relative reference ("//host/path") is given the http scheme.
func ParseURL(s string) (*url.URL, error) {
	s = strings.TrimSpace(s)
	if len(s) > 2 && strings.HasPrefix(s, "//") {
		s = "http:" + s
	}
	return url.Parse(s)
}

// sameValue reports whether b is the value a, not merely an equal one where the
// distinction exists (maps, slices, pointers).
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}
	switch va.Kind() {
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.Map, reflect.Ptr, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return va.Pointer() == vb.Pointer()
	}
	if !va.Comparable() || !vb.Comparable() {
		return false
	}
	return a == b
}

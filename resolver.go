// FILE: lixenwraith/setting/resolver.go
package setting

import (
	"fmt"
	"reflect"

	"github.com/sirupsen/logrus"
)

// Resolver resolves named settings: it joins group and name, looks the composed
// name up and coerces the raw value to the requested type.
//
// A Resolver holds no mutable state. It is safe for concurrent use as long as
// its lookup, converter and joiner are.
type Resolver struct {
	lookup    Lookup
	fallback  Lookup
	converter ConvertFunc
	joiner    JoinFunc
	policy    Policy
	logger    logrus.FieldLogger
}

// New creates a strict Resolver over lookup with the default joiner and converter.
func New(lookup Lookup) *Resolver {
	return NewBuilder().WithLookup(lookup).MustBuild()
}

// Policy returns the coercion failure policy the resolver was built with.
func (r *Resolver) Policy() Policy {
	return r.policy
}

// GetSetting resolves group/name to a value of type target.
//
// A missing key returns (nil, nil) without attempting conversion. Under
// PolicyStrict a conversion failure returns a *CoercionError; under PolicyTolerant
// it returns DefaultValue(target) instead. Lookup failures, a nil target and a
// missing lookup are errors under both policies.
func (r *Resolver) GetSetting(group, name string, target reflect.Type) (any, error) {
	v, _, err := r.resolve(group, name, target)
	return v, err
}

func (r *Resolver) resolve(group, name string, target reflect.Type) (any, bool, error) {
	if target == nil {
		return nil, false, ErrNilTargetType
	}

	composed := r.joiner(group, name)

	lookup := r.lookup
	if lookup == nil {
		lookup = r.fallback
	}
	if lookup == nil {
		return nil, false, ErrLookupNotConfigured
	}

	raw, found, err := lookup.Lookup(composed)
	if err != nil {
		return nil, false, &LookupError{Name: composed, Err: err}
	}
	if !found || raw == nil {
		r.logger.WithField("setting", composed).Debug("setting not found")
		return nil, false, nil
	}

	v, err := coerceWith(r.convert, composed, raw, target, r.policy, func(err error) {
		r.logger.WithFields(logrus.Fields{
			"setting": composed,
			"type":    target.String(),
			"error":   err,
		}).Debug("setting coercion failed, using default value")
	})
	if err != nil {
		return nil, true, err
	}
	return v, true, nil
}

// convert runs the configured converter and then ensureSpecialTypes.
func (r *Resolver) convert(raw any, target reflect.Type) (any, error) {
	if r.converter == nil {
		return Convert(raw, target)
	}
	v, err := r.converter(raw, target)
	if err != nil {
		return nil, err
	}
	return ensureSpecialTypes(raw, v, target)
}

// ensureSpecialTypes is the post-condition of a converter override: when the override
// handed back the raw value itself it did not convert anything, so the built-in
// conversion runs once to apply identifier, duration and URL parsing.
func ensureSpecialTypes(raw, converted any, target reflect.Type) (any, error) {
	if !sameValue(raw, converted) {
		return converted, nil
	}
	return Convert(raw, target)
}

// Get resolves group/name as T. found is false when the key is absent.
func Get[T any](r *Resolver, group, name string) (value T, found bool, err error) {
	var zero T
	target := reflect.TypeOf((*T)(nil)).Elem()

	v, found, err := r.resolve(group, name, target)
	if err != nil || !found || v == nil {
		return zero, found, err
	}

	typed, ok := v.(T)
	if !ok {
		// Only reachable through a converter override returning the wrong type
		if r.policy == PolicyTolerant {
			return zero, true, nil
		}
		return zero, true, &CoercionError{
			Name:  r.joiner(group, name),
			Value: v,
			Type:  target,
			Err:   fmt.Errorf("converter returned %T", v),
		}
	}
	return typed, true, nil
}

// GetOr resolves group/name as T and returns def when the key is absent or resolution fails.
func GetOr[T any](r *Resolver, group, name string, def T) T {
	v, found, err := Get[T](r, group, name)
	if err != nil || !found {
		return def
	}
	return v
}

// Group is a Resolver scoped to a single group.
type Group struct {
	resolver *Resolver
	name     string
}

// Group returns a view of r that resolves names inside group.
func (r *Resolver) Group(group string) Group {
	return Group{resolver: r, name: group}
}

// Name returns the group prefix.
func (g Group) Name() string {
	return g.name
}

// GetSetting resolves name within the group. See Resolver.GetSetting.
func (g Group) GetSetting(name string, target reflect.Type) (any, error) {
	return g.resolver.GetSetting(g.name, name, target)
}

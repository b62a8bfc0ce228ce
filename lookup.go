// FILE: lixenwraith/setting/lookup.go
package setting

// Lookup maps a composed setting name to its raw value.
// found reports whether the key exists; a present but empty value is found.
// err is reserved for failures of the backing store itself.
type Lookup interface {
	Lookup(name string) (value any, found bool, err error)
}

// LookupFunc adapts a plain function to Lookup.
type LookupFunc func(name string) (any, bool, error)

// Lookup implements Lookup.
func (f LookupFunc) Lookup(name string) (any, bool, error) {
	return f(name)
}

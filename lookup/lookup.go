package lookup

import (
	"github.com/lixenwraith/setting"
)

// Named is a lookup that can describe itself in diagnostics.
type Named interface {
	setting.Lookup
	Name() string
}

// Map is a fixed in-memory lookup. Keys are composed setting names.
type Map map[string]any

// Lookup implements setting.Lookup.
func (m Map) Lookup(name string) (any, bool, error) {
	v, ok := m[name]
	return v, ok, nil
}

// Name returns "map".
func (m Map) Name() string {
	return "map"
}

// Chain consults each lookup in order and returns the first value found.
// An error from any member ends the search.
type Chain []setting.Lookup

// Lookup implements setting.Lookup.
func (c Chain) Lookup(name string) (any, bool, error) {
	for _, l := range c {
		if l == nil {
			continue
		}
		v, found, err := l.Lookup(name)
		if err != nil {
			return nil, false, err
		}
		if found && v != nil {
			return v, true, nil
		}
	}
	return nil, false, nil
}

// Name returns "chain".
func (c Chain) Name() string {
	return "chain"
}

var (
	_ Named = Map(nil)
	_ Named = Chain(nil)
	_ Named = (*Env)(nil)
	_ Named = (*Consul)(nil)
	_ Named = (*Viper)(nil)
)

package lookup

import (
	"github.com/spf13/viper"
)

// Viper looks settings up in a viper instance. Viper keys are case-insensitive
// and dotted names address nested tables, so "Db.Timeout" finds [db] timeout.
type Viper struct {
	v *viper.Viper
}

// NewViper wraps v. A nil v uses the global viper instance.
func NewViper(v *viper.Viper) *Viper {
	if v == nil {
		v = viper.GetViper()
	}
	return &Viper{v: v}
}

// Lookup implements setting.Lookup.
func (l *Viper) Lookup(name string) (any, bool, error) {
	if !l.v.IsSet(name) {
		return nil, false, nil
	}
	return l.v.Get(name), true, nil
}

// Name returns "viper".
func (l *Viper) Name() string {
	return "viper"
}

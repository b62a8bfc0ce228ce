// File: lixenwraith/setting/builder.go
package setting

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// Builder provides a fluent interface for building a Resolver
type Builder struct {
	lookup    Lookup
	fallback  Lookup
	converter ConvertFunc
	joiner    JoinFunc
	policy    Policy
	logger    logrus.FieldLogger
}

// NewBuilder creates a new resolver builder with PolicyStrict and default strategies
func NewBuilder() *Builder {
	return &Builder{
		policy: PolicyStrict,
	}
}

// WithLookup sets the lookup that supplies raw setting values
func (b *Builder) WithLookup(l Lookup) *Builder {
	b.lookup = l
	return b
}

// WithLookupFunc is WithLookup for a plain function
func (b *Builder) WithLookupFunc(fn func(name string) (any, bool, error)) *Builder {
	if fn == nil {
		b.lookup = nil
		return b
	}
	return b.WithLookup(LookupFunc(fn))
}

// WithFallback sets the store consulted when no lookup is configured.
// This is where an application plugs in its own default settings store.
func (b *Builder) WithFallback(l Lookup) *Builder {
	b.fallback = l
	return b
}

// WithConverter replaces the built-in conversion. Passing nil restores Convert.
func (b *Builder) WithConverter(fn ConvertFunc) *Builder {
	b.converter = fn
	return b
}

// WithJoiner replaces JoinName. Passing nil restores it.
func (b *Builder) WithJoiner(fn JoinFunc) *Builder {
	b.joiner = fn
	return b
}

// WithPolicy sets the coercion failure policy
func (b *Builder) WithPolicy(p Policy) *Builder {
	b.policy = p
	return b
}

// WithTolerant is shorthand for WithPolicy(PolicyTolerant)
func (b *Builder) WithTolerant() *Builder {
	return b.WithPolicy(PolicyTolerant)
}

// WithLogger sets the logger for debug diagnostics. Passing nil discards output.
func (b *Builder) WithLogger(l logrus.FieldLogger) *Builder {
	b.logger = l
	return b
}

// Build creates the Resolver. The builder can be reused afterwards.
func (b *Builder) Build() (*Resolver, error) {
	if b.policy != PolicyStrict && b.policy != PolicyTolerant {
		return nil, fmt.Errorf("unknown resolution policy: %s", b.policy)
	}

	r := &Resolver{
		lookup:    b.lookup,
		fallback:  b.fallback,
		converter: b.converter,
		joiner:    b.joiner,
		policy:    b.policy,
		logger:    b.logger,
	}
	if r.joiner == nil {
		r.joiner = JoinName
	}
	if r.logger == nil {
		r.logger = discardLogger()
	}

	return r, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Resolver {
	r, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("setting resolver build failed: %v", err))
	}
	return r
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

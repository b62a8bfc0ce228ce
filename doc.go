// File: lixenwraith/setting/doc.go

// Package setting resolves named settings from an external key/value source and
// converts the raw value into the type the caller asks for.
//
// Features:
//   - Group/name composition into dotted keys ("Db" + "Timeout" -> "Db.Timeout")
//   - Pluggable lookup, name joiner and converter strategies
//   - Special-case parsing for uuid.UUID, time.Duration and url.URL targets
//   - Weak generic conversion for everything else (mapstructure)
//   - Strict or tolerant handling of conversion failures
//   - Immutable resolvers, safe for concurrent use without locking
//
// Quick Start:
//
//	r := setting.New(setting.LookupFunc(func(name string) (any, bool, error) {
//	    v, ok := os.LookupEnv(name)
//	    return v, ok, nil
//	}))
//
//	timeout, found, err := setting.Get[time.Duration](r, "Db", "Timeout")
//
// Policies:
//
// PolicyStrict (the default) returns a *CoercionError when a value cannot be
// converted. PolicyTolerant substitutes the zero value of the target type, or nil
// for reference types, and reports nothing to the caller. Tolerant resolution
// therefore masks misconfiguration; enable debug logging through
// Builder.WithLogger to see suppressed failures.
//
//	r, err := setting.NewBuilder().
//	    WithLookup(store).
//	    WithTolerant().
//	    WithLogger(logrus.StandardLogger()).
//	    Build()
//
// A missing key is not an error: GetSetting returns (nil, nil) and Get reports
// found == false. Ready-made lookups live in the lookup and store packages.
package setting

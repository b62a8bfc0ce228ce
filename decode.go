// FILE: lixenwraith/setting/decode.go
package setting

import (
	"fmt"
	"math"
	"net"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// TagName is the struct tag consulted when a setting is decoded into a struct or map target.
const TagName = "toml"

// convertGeneric is the fallback conversion for every target type.
// Strings, numbers and booleans convert into each other weakly (e.g. "8080" to int,
// int64 to int, 1 to true), and raw maps decode into structs.
func convertGeneric(raw any, target reflect.Type) (any, error) {
	if reflect.TypeOf(raw) == target {
		return raw, nil
	}

	out := reflect.New(target)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out.Interface(),
		TagName:          TagName,
		WeaklyTypedInput: true,
		DecodeHook:       decodeHook(),
	})
	if err != nil {
		return nil, fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, err
	}

	return out.Elem().Interface(), nil
}

// decodeHook returns the composite decode hook for the generic path
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		// Network types
		stringToNetIPHookFunc(),
		stringToNetIPNetHookFunc(),

		// Standard hooks
		mapstructure.StringToTimeDurationHookFunc(),

		// Integers: decimal strings only, no silent wrap-around
		stringToIntegerHookFunc(),
		integerRangeHookFunc(),

		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	)
}

// stringToIntegerHookFunc parses strings bound for integer kinds as base-10 numbers
// sized to the target, so "010" is 10 and "0x10" is rejected. Empty strings are left
// to the weak decoder, which turns them into 0.
func stringToIntegerHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || !isInteger(t.Kind()) {
			return data, nil
		}

		str := strings.TrimSpace(reflect.ValueOf(data).String())
		if str == "" {
			return data, nil
		}

		if isUnsigned(t.Kind()) {
			n, err := strconv.ParseUint(str, 10, t.Bits())
			if err != nil {
				return nil, fmt.Errorf("invalid %s: %w", t, err)
			}
			return reflect.ValueOf(n).Convert(t).Interface(), nil
		}
		n, err := strconv.ParseInt(str, 10, t.Bits())
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", t, err)
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	}
}

// integerRangeHookFunc rejects numbers that do not fit the integer target
func integerRangeHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if !isInteger(t.Kind()) {
			return data, nil
		}

		v := reflect.ValueOf(data)
		out := reflect.New(t).Elem()
		overflow := false

		switch {
		case isSigned(f.Kind()):
			n := v.Int()
			if isUnsigned(t.Kind()) {
				overflow = n < 0 || out.OverflowUint(uint64(n))
			} else {
				overflow = out.OverflowInt(n)
			}

		case isUnsigned(f.Kind()):
			n := v.Uint()
			if isUnsigned(t.Kind()) {
				overflow = out.OverflowUint(n)
			} else {
				overflow = n > math.MaxInt64 || out.OverflowInt(int64(n))
			}

		case f.Kind() == reflect.Float32 || f.Kind() == reflect.Float64:
			x := math.Trunc(v.Float())
			switch {
			case math.IsNaN(x) || math.IsInf(x, 0):
				overflow = true
			case isUnsigned(t.Kind()):
				overflow = x < 0 || x >= math.MaxUint64 || out.OverflowUint(uint64(x))
			default:
				overflow = x < math.MinInt64 || x >= math.MaxInt64 || out.OverflowInt(int64(x))
			}

		default:
			return data, nil
		}

		if overflow {
			return nil, fmt.Errorf("value %v overflows %s", data, t)
		}
		return data, nil
	}
}

func isSigned(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUnsigned(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isInteger(k reflect.Kind) bool {
	return isSigned(k) || isUnsigned(k)
}

// stringToNetIPHookFunc handles net.IP conversion
func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}

		if t != reflect.TypeOf(net.IP{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 45 { // Max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}

		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}

		return ip, nil
	}
}

// stringToNetIPNetHookFunc handles net.IPNet conversion
func stringToNetIPNetHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(net.IPNet{}) {
			return data, nil
		}

		str := data.(string)
		if len(str) > 49 { // Max IPv6 CIDR length
			return nil, fmt.Errorf("invalid CIDR length: %d", len(str))
		}
		_, ipnet, err := net.ParseCIDR(str)
		if err != nil {
			return nil, fmt.Errorf("invalid CIDR: %w", err)
		}
		if isPtr {
			return ipnet, nil
		}
		return *ipnet, nil
	}
}

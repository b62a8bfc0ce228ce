// FILE: lixenwraith/setting/duration.go
package setting

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

const (
	day = 24 * time.Hour

	// maxSpanSeconds keeps a parsed span inside time.Duration.
	maxSpanSeconds = math.MaxInt64/int64(time.Second) - 1

	// fractional seconds carry at most seven digits (100ns ticks)
	maxFractionDigits = 7
)

// ParseDuration parses a time span such as "00:30:00", "1.02:03:04.5" or "7" (days).
// Accepted forms, after trimming and an optional leading '-':
//
//	d
//	[d.]hh:mm[:ss[.fffffff]]
//	d:hh:mm:ss[.fffffff]
//
// Strings in none of these forms are handed to Go duration syntax ("1m30s").
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if d, ok := parseTimeSpan(s); ok {
		return d, nil
	}
	if s == "" || !strings.ContainsAny(s, "nsuµmh") {
		// cast treats a bare number as nanoseconds, which a time span never means
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	d, err := cast.ToDurationE(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}

// parseTimeSpan implements the colon notation. ok is false on any syntax or range error.
func parseTimeSpan(s string) (time.Duration, bool) {
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}
	if s == "" {
		return 0, false
	}

	var days, hours, minutes, seconds int64
	var ticks int64 // 100ns units
	var ok bool

	if !strings.Contains(s, ":") {
		if days, ok = parseField(s, math.MaxInt64); !ok {
			return 0, false
		}
		return finishSpan(negative, days, 0, 0, 0, 0)
	}

	parts := strings.Split(s, ":")
	if i := strings.IndexByte(parts[0], '.'); i >= 0 {
		if len(parts) > 3 {
			return 0, false
		}
		if days, ok = parseField(parts[0][:i], math.MaxInt64); !ok {
			return 0, false
		}
		parts[0] = parts[0][i+1:]
	} else if len(parts) == 4 {
		if days, ok = parseField(parts[0], math.MaxInt64); !ok {
			return 0, false
		}
		parts = parts[1:]
	}
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}

	if hours, ok = parseField(parts[0], 23); !ok {
		return 0, false
	}
	if minutes, ok = parseField(parts[1], 59); !ok {
		return 0, false
	}
	if len(parts) == 3 {
		sec, frac, hasFrac := strings.Cut(parts[2], ".")
		if seconds, ok = parseField(sec, 59); !ok {
			return 0, false
		}
		if hasFrac {
			if frac == "" || len(frac) > maxFractionDigits {
				return 0, false
			}
			frac += strings.Repeat("0", maxFractionDigits-len(frac))
			if ticks, ok = parseField(frac, math.MaxInt64); !ok {
				return 0, false
			}
		}
	}

	return finishSpan(negative, days, hours, minutes, seconds, ticks)
}

func finishSpan(negative bool, days, hours, minutes, seconds, ticks int64) (time.Duration, bool) {
	if days > maxSpanSeconds/int64(day/time.Second) {
		return 0, false
	}
	total := days*int64(day/time.Second) + hours*3600 + minutes*60 + seconds
	if total > maxSpanSeconds {
		return 0, false
	}
	d := time.Duration(total)*time.Second + time.Duration(ticks)*100*time.Nanosecond
	if negative {
		d = -d
	}
	return d, true
}

// parseField accepts ASCII digits only, no sign, within [0, limit].
func parseField(s string, limit int64) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n > limit {
		return 0, false
	}
	return n, true
}

package steptype

import (
	"math"
	"strconv"
	"strings"
)

// Options is the per-question configuration bag decoded from a ticket script.
// Unknown keys are ignored; accessors fall back to the given default when a key
// is missing or has the wrong shape.
type Options map[string]any

// Has reports whether key is present.
func (o Options) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Int reads an integer option. YAML and JSON decoders produce int, int64,
// uint64 or float64 depending on the source, and numeric strings are accepted too.
func (o Options) Int(key string, def int) int {
	v, ok := o[key]
	if !ok {
		return def
	}
	switch val := v.(type) {
	case int:
		return val
	case int32:
		return int(val)
	case int64:
		return clampInt64(val)
	case uint64:
		if val > math.MaxInt {
			return math.MaxInt
		}
		return int(val)
	case float64:
		if val != math.Trunc(val) {
			return def
		}
		if val >= math.MaxInt {
			return math.MaxInt
		}
		if val <= math.MinInt {
			return math.MinInt
		}
		return int(val)
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return def
		}
		return clampInt64(n)
	}
	return def
}

func clampInt64(v int64) int {
	if v > math.MaxInt {
		return math.MaxInt
	}
	if v < math.MinInt {
		return math.MinInt
	}
	return int(v)
}

// String reads a string option.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Bool reads a boolean option; "true"/"false" strings are accepted.
func (o Options) Bool(key string, def bool) bool {
	switch val := o[key].(type) {
	case bool:
		return val
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(val))
		if err == nil {
			return b
		}
	}
	return def
}

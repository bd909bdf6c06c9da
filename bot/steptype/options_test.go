package steptype

import (
	"math"
	"testing"
)

func TestOptionsInt(t *testing.T) {
	opts := Options{
		"int":      5,
		"int64":    int64(7),
		"uint64":   uint64(9),
		"float":    float64(11),
		"fraction": 1.5,
		"string":   " 13 ",
		"garbage":  "abc",
		"huge":     1e300,
		"bool":     true,
	}
	tests := []struct {
		key  string
		want int
	}{
		{"int", 5},
		{"int64", 7},
		{"uint64", 9},
		{"float", 11},
		{"fraction", -1},
		{"string", 13},
		{"garbage", -1},
		{"huge", math.MaxInt},
		{"bool", -1},
		{"missing", -1},
	}
	for _, tt := range tests {
		if got := opts.Int(tt.key, -1); got != tt.want {
			t.Errorf("Int(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

func TestOptionsStringAndBool(t *testing.T) {
	opts := Options{"name": "value", "flag": true, "text_flag": "false", "number": 3}

	if got := opts.String("name", "def"); got != "value" {
		t.Errorf("String(name) = %q", got)
	}
	if got := opts.String("number", "def"); got != "def" {
		t.Errorf("String(number) = %q, want default", got)
	}
	if !opts.Bool("flag", false) {
		t.Error("Bool(flag) = false")
	}
	if opts.Bool("text_flag", true) {
		t.Error("Bool(text_flag) = true")
	}
	if !opts.Bool("missing", true) {
		t.Error("Bool(missing) did not fall back to default")
	}
	if !opts.Has("name") || opts.Has("missing") {
		t.Error("Has reports wrong presence")
	}

	var empty Options
	if empty.Int("maximumLength", math.MaxInt) != math.MaxInt {
		t.Error("nil Options must fall back to defaults")
	}
}

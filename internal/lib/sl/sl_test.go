package sl

import (
	"errors"
	"testing"
)

func TestErr(t *testing.T) {
	attr := Err(errors.New("boom"))
	if attr.Key != "error" || attr.Value.String() != "boom" {
		t.Fatalf("unexpected attr %v", attr)
	}
	if Err(nil).Value.String() != "" {
		t.Fatal("nil error should render empty")
	}
}

func TestSecret(t *testing.T) {
	tests := []struct {
		value string
		want  string
	}{
		{"short", "***"},
		{"0123456789abcdef", "0123***cdef"},
	}
	for _, tt := range tests {
		if got := Secret("key", tt.value).Value.String(); got != tt.want {
			t.Errorf("Secret(%q) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

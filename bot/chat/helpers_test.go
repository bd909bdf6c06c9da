package chat

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := map[string]string{
		"+380 (50) 123-45-67": "+380501234567",
		"380501234567":        "+380501234567",
		"no digits":           "",
	}
	for in, want := range tests {
		if got := NormalizePhone(in); got != want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"+380501234567", true},
		{"+380 50 123 45 67", true},
		{"0501234567", true},
		{"12345", false},
		{"+1234567890123456", false},
		{"call me 0501234567", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidPhone(tt.in); got != tt.want {
			t.Errorf("IsValidPhone(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

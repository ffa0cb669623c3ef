package main

import "testing"

func TestTokenPrefix(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"A1B2C3D4E5F6", "A1B2C3D4..."},
		{"shorttok", "shor..."},
		{"ab", "a..."},
		{"", "..."},
	}
	for _, tc := range tests {
		if got := tokenPrefix(tc.token); got != tc.want {
			t.Errorf("tokenPrefix(%q) = %q, want %q", tc.token, got, tc.want)
		}
	}
}

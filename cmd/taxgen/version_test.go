package main

import "testing"

func TestShortCommit(t *testing.T) {
	tests := []struct {
		name string
		hash string
		want string
	}{
		{"full sha", "280fbcf9a2534c1fe8ba1a2c4eb326eb323b0e5a", "280fbcf9a253"},
		{"already short", "280fbcf", "280fbcf"},
		{"exactly twelve", "280fbcf9a253", "280fbcf9a253"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shortCommit(tt.hash); got != tt.want {
				t.Errorf("shortCommit(%q) = %q, want %q", tt.hash, got, tt.want)
			}
		})
	}
}

func TestExtractSemver(t *testing.T) {
	tests := []struct {
		name string
		full string
		want string
	}{
		{"plain version", "0.6.0", "0.6.0"},
		{"with build", "0.6.0 (dev)", "0.6.0"},
		{"with branch and commit", "0.6.0 (dev: main@abc123)", "0.6.0"},
		{"paren without space", "0.6.0(dev)", "0.6.0"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSemver(tt.full); got != tt.want {
				t.Errorf("ExtractSemver(%q) = %q, want %q", tt.full, got, tt.want)
			}
		})
	}
}

package main

import "testing"

func TestFrameBaseName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"-", "frame"},
		{"anim.gif", "anim"},
		{"/tmp/out/loader.gif", "loader"},
		{"noext", "noext"},
	}
	for _, tt := range tests {
		if got := frameBaseName(tt.in); got != tt.want {
			t.Errorf("frameBaseName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

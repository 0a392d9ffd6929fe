// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import "testing"

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"lamotrigine", 24, "lamotrigine"},
		{"maximal electroshock seizure test", 14, "maximal ele..."},
		// Multi-byte text must never be cut mid-rune.
		{"Ätiologie der Epilepsie", 10, "Ätiolog..."},
		{"αβγδεζηθικλ", 5, "αβ..."},
		{"日本語テキスト", 3, "日本語"},
		{"ab", 2, "ab"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

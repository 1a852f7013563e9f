package main

import (
	"testing"

	"github.com/strandchat/strand/internal/chat"
)

func TestShortID(t *testing.T) {
	t.Parallel()

	if got := shortID("abcdef1234567890"); got != "abcdef12" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID should pass short ids through, got %q", got)
	}
}

func TestResolveShortID(t *testing.T) {
	t.Parallel()

	sessions := []chat.Summary{
		{ID: "aaaa1111"},
		{ID: "aabb2222"},
		{ID: "bbbb3333"},
	}

	tests := []struct {
		in   string
		want string
	}{
		{"bbbb", "bbbb3333"},
		{"aaaa1111", "aaaa1111"},
		{"aa", "aa"},        // ambiguous prefix passes through
		{"zzzz", "zzzz"},    // no match passes through
		{"aabb", "aabb2222"},
	}

	for _, tt := range tests {
		if got := resolveShortID(sessions, tt.in); got != tt.want {
			t.Errorf("resolveShortID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

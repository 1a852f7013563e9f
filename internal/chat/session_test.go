package chat

import (
	"strings"
	"testing"
	"time"
)

func TestTrim(t *testing.T) {
	t.Parallel()

	at := time.Now()
	msgs := []Message{
		msg("a", RoleUser, "1", at),
		msg("b", RoleAssistant, "2", at),
		msg("c", RoleUser, "3", at),
	}

	if got := Trim(msgs, 2); len(got) != 2 || got[0].ID != "b" {
		t.Errorf("Trim(2) = %v", got)
	}
	if got := Trim(msgs, 5); len(got) != 3 {
		t.Errorf("Trim(5) should keep all, got %d", len(got))
	}
	if got := Trim(msgs, 0); len(got) != 3 {
		t.Errorf("Trim(0) should be a no-op, got %d", len(got))
	}
}

func TestLatestSession(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := Collection{
		"old": {msg("a", RoleUser, "x", base)},
		"new": {msg("b", RoleUser, "y", base.Add(time.Hour))},
		"mid": {msg("c", RoleUser, "z", base.Add(time.Minute))},
	}

	if got := LatestSession(c); got != "new" {
		t.Errorf("LatestSession = %q, want new", got)
	}
	if got := LatestSession(Collection{}); got != "" {
		t.Errorf("LatestSession on empty = %q, want empty", got)
	}
}

func TestSummaries_SortAndTitle(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	long := strings.Repeat("x", 60)
	c := Collection{
		"older": {
			msg("a", RoleSystem, "boot", base),
			msg("b", RoleUser, long, base.Add(time.Second)),
		},
		"newer": {
			msg("c", RoleUser, "short prompt", base.Add(time.Hour)),
		},
		"empty": {},
	}

	got := Summaries(c)
	if len(got) != 3 {
		t.Fatalf("got %d summaries, want 3", len(got))
	}

	if got[0].ID != "newer" || got[1].ID != "older" || got[2].ID != "empty" {
		t.Errorf("order = %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
	if got[0].FirstPrompt != "short prompt" {
		t.Errorf("FirstPrompt = %q", got[0].FirstPrompt)
	}
	if want := strings.Repeat("x", 50) + "..."; got[1].FirstPrompt != want {
		t.Errorf("long FirstPrompt = %q, want truncated with ellipsis", got[1].FirstPrompt)
	}
	if got[2].FirstPrompt != defaultFirstPrompt {
		t.Errorf("empty session FirstPrompt = %q, want placeholder", got[2].FirstPrompt)
	}
	if !got[2].LastUpdate.IsZero() {
		t.Errorf("empty session LastUpdate = %v, want zero", got[2].LastUpdate)
	}
}

func TestSummaries_StableTies(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := Collection{
		"bbb": {msg("a", RoleUser, "one", at)},
		"aaa": {msg("b", RoleUser, "two", at)},
	}

	for range 5 {
		got := Summaries(c)
		if got[0].ID != "aaa" || got[1].ID != "bbb" {
			t.Fatalf("tie order not stable: %s, %s", got[0].ID, got[1].ID)
		}
	}
}

func TestNewIDUniqueness(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for range 100 {
		id := NewID()
		if len(id) != 32 {
			t.Fatalf("id length = %d, want 32", len(id))
		}
		if seen[id] {
			t.Fatalf("duplicate id: %s", id)
		}
		seen[id] = true
	}
}

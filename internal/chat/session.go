package chat

import (
	"cmp"
	"slices"
	"time"
)

// firstPromptLimit is the maximum length of a session's derived title.
const firstPromptLimit = 50

// defaultFirstPrompt is used when a session has no user message yet.
const defaultFirstPrompt = "Chat Session"

// Summary is the derived, non-stored view of a session used for listings.
type Summary struct {
	ID          string
	FirstPrompt string
	LastUpdate  time.Time
}

// Trim returns the most recent n messages of msgs. It returns msgs
// unchanged when it already fits.
func Trim(msgs []Message, n int) []Message {
	if n <= 0 || len(msgs) <= n {
		return msgs
	}
	return msgs[len(msgs)-n:]
}

// LatestSession returns the id of the session holding the globally most
// recent message, or "" when the collection has no messages at all.
func LatestSession(c Collection) string {
	var latestID string
	var latest time.Time
	for id, msgs := range c {
		for _, m := range msgs {
			if m.CreatedAt.After(latest) {
				latest = m.CreatedAt
				latestID = id
			}
		}
	}
	return latestID
}

// Summaries derives the session listing, sorted by last update descending.
// Ties are broken by id so the order is stable across calls.
func Summaries(c Collection) []Summary {
	out := make([]Summary, 0, len(c))
	for id, msgs := range c {
		out = append(out, Summary{
			ID:          id,
			FirstPrompt: firstPrompt(msgs),
			LastUpdate:  lastUpdate(msgs),
		})
	}
	slices.SortFunc(out, func(a, b Summary) int {
		if !a.LastUpdate.Equal(b.LastUpdate) {
			if a.LastUpdate.After(b.LastUpdate) {
				return -1
			}
			return 1
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// firstPrompt returns the first user message's content truncated to
// firstPromptLimit runes, with an ellipsis marker when longer.
func firstPrompt(msgs []Message) string {
	for _, m := range msgs {
		if m.Role != RoleUser {
			continue
		}
		runes := []rune(m.Content)
		if len(runes) <= firstPromptLimit {
			return m.Content
		}
		return string(runes[:firstPromptLimit]) + "..."
	}
	return defaultFirstPrompt
}

// lastUpdate is the newest message timestamp, zero for an empty session.
// Messages are appended chronologically, so the last entry is newest.
func lastUpdate(msgs []Message) time.Time {
	if len(msgs) == 0 {
		return time.Time{}
	}
	return msgs[len(msgs)-1].CreatedAt
}

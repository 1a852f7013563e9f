package session

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/strandchat/strand/internal/chat"
)

func testStore(t *testing.T, limit int) (*Store, *MemoryPort) {
	t.Helper()
	port := NewMemoryPort(limit)
	return NewStore(port, limit, slog.Default()), port
}

func messagesN(n int, base time.Time) []chat.Message {
	msgs := make([]chat.Message, 0, n)
	for i := range n {
		msgs = append(msgs, chat.Message{
			ID:        fmt.Sprintf("m%03d", i),
			Role:      chat.RoleUser,
			Content:   fmt.Sprintf("message %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}
	return msgs
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	store, port := testStore(t, 20)
	store.Load(ctx)
	store.Upsert(ctx, "s1", messagesN(3, base))

	reloaded := NewStore(port, 20, slog.Default())
	activeID := reloaded.Load(ctx)

	if activeID != "s1" {
		t.Errorf("active id = %q, want s1", activeID)
	}
	got := reloaded.Messages("s1")
	if len(got) != 3 {
		t.Fatalf("got %d messages, want 3", len(got))
	}
	for i, m := range got {
		if m.ID != fmt.Sprintf("m%03d", i) {
			t.Errorf("message %d = %q, out of order", i, m.ID)
		}
	}
}

func TestStore_SaveTruncatesToLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	store, port := testStore(t, 5)
	store.Load(ctx)
	store.Upsert(ctx, "s1", messagesN(9, base))

	// In-memory copy is capped after the write as well.
	if got := store.Messages("s1"); len(got) != 5 {
		t.Errorf("in-memory length = %d, want 5", len(got))
	}

	reloaded := NewStore(port, 5, slog.Default())
	reloaded.Load(ctx)

	got := reloaded.Messages("s1")
	if len(got) != 5 {
		t.Fatalf("got %d messages, want 5", len(got))
	}
	if got[0].ID != "m004" || got[4].ID != "m008" {
		t.Errorf("kept wrong window: first %s, last %s", got[0].ID, got[4].ID)
	}
}

func TestStore_CorruptSlotStartsEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, port := testStore(t, 20)
	store.Load(ctx)
	store.Upsert(ctx, "s1", messagesN(2, time.Now()))

	port.Corrupt()

	reloaded := NewStore(port, 20, slog.Default())
	activeID := reloaded.Load(ctx)

	if activeID != "" {
		t.Errorf("active id = %q, want empty after corruption", activeID)
	}
	if len(reloaded.Summaries()) != 0 {
		t.Error("collection should be empty after corruption")
	}
}

func TestStore_WipeAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, port := testStore(t, 20)
	store.Load(ctx)
	store.Upsert(ctx, "s1", messagesN(2, time.Now()))

	store.WipeAll(ctx)

	if store.Has("s1") {
		t.Error("session should be gone after WipeAll")
	}

	reloaded := NewStore(port, 20, slog.Default())
	if activeID := reloaded.Load(ctx); activeID != "" {
		t.Errorf("active id after wipe = %q, want empty", activeID)
	}
	if len(reloaded.Summaries()) != 0 {
		t.Error("slot should be empty after WipeAll")
	}
}

func TestStore_MessagesReturnsCopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store, _ := testStore(t, 20)
	store.Load(ctx)
	store.Upsert(ctx, "s1", messagesN(2, time.Now()))

	got := store.Messages("s1")
	got[0].Content = "mutated"

	if store.Messages("s1")[0].Content == "mutated" {
		t.Error("Messages should return a copy")
	}
	if store.Messages("missing") != nil {
		t.Error("Messages for unknown id should be nil")
	}
}

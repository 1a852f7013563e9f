package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/strandchat/strand/internal/chat"
)

// DefaultHistoryLimit is the per-session trim limit N applied on every
// persistence write.
const DefaultHistoryLimit = 20

// Store wraps the session collection in memory on top of a Port.
// Persistence is best-effort: write failures are logged and swallowed so
// they only ever affect durability, never in-memory state.
type Store struct {
	mu     sync.RWMutex
	port   Port
	limit  int
	logger *slog.Logger

	collection chat.Collection
}

// NewStore creates a Store over the given port. A limit of 0 falls back
// to DefaultHistoryLimit.
func NewStore(port Port, limit int, logger *slog.Logger) *Store {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		port:       port,
		limit:      limit,
		logger:     logger,
		collection: chat.Collection{},
	}
}

// Load populates the store from the port and returns the initial active
// session id. A port failure starts the store empty — loading always
// succeeds from the caller's point of view.
func (s *Store) Load(ctx context.Context) string {
	c, activeID, err := s.port.Load(ctx)
	if err != nil {
		s.logger.Error("session load failed, starting empty", "error", err)
		c, activeID = chat.Collection{}, ""
	}
	if c == nil {
		c = chat.Collection{}
	}

	s.mu.Lock()
	s.collection = c
	s.mu.Unlock()
	return activeID
}

// Messages returns a copy of the given session's message list, nil when
// the session does not exist.
func (s *Store) Messages(id string) []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs, ok := s.collection[id]
	if !ok {
		return nil
	}
	out := make([]chat.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Has reports whether a session with the given id exists.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.collection[id]
	return ok
}

// Summaries returns the session listing, most recently updated first.
func (s *Store) Summaries() []chat.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return chat.Summaries(s.collection)
}

// Upsert replaces the given session's messages and persists the whole
// collection. After the write the in-memory copy is trimmed to the limit
// as well, so no subsequent read observes more than the cap.
func (s *Store) Upsert(ctx context.Context, id string, msgs []chat.Message) {
	s.mu.Lock()
	s.collection[id] = msgs
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.port.Save(ctx, snapshot); err != nil {
		s.logger.Error("session save failed", "session_id", id, "error", err)
	}

	s.mu.Lock()
	s.collection[id] = chat.Trim(s.collection[id], s.limit)
	s.mu.Unlock()
}

// WipeAll empties the collection and clears the durable slot.
func (s *Store) WipeAll(ctx context.Context) {
	s.mu.Lock()
	s.collection = chat.Collection{}
	s.mu.Unlock()

	if err := s.port.Clear(ctx); err != nil {
		s.logger.Error("session slot clear failed", "error", err)
	}
}

// snapshotLocked copies the collection for handing to the port outside
// the lock. Message slices are shared; messages are immutable.
func (s *Store) snapshotLocked() chat.Collection {
	c := make(chat.Collection, len(s.collection))
	for id, msgs := range s.collection {
		c[id] = msgs
	}
	return c
}

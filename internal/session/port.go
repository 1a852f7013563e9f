// Package session owns client-side conversation state: the durable
// persistence port, the in-memory store, and the submit/switch/clear
// state machine driving outgoing calls.
package session

import (
	"context"
	"sync"

	"github.com/strandchat/strand/internal/chat"
)

// Port is the durable slot boundary. Implementations persist the whole
// session collection as one atomic write and recover from corruption by
// discarding — corruption is never surfaced as an error to callers.
type Port interface {
	// Load reads the slot. An absent or corrupt slot yields an empty
	// collection and no error. The second return is the id of the session
	// holding the globally newest message ("" when none), used as the
	// initial active session.
	Load(ctx context.Context) (chat.Collection, string, error)

	// Save overwrites the slot with the collection, truncating each
	// session to its most recent N entries first.
	Save(ctx context.Context, c chat.Collection) error

	// Clear empties the slot.
	Clear(ctx context.Context) error
}

// MemoryPort is an in-process Port used by tests and as a fallback when no
// durable path is configured. It stores the encoded form so load exercises
// the same validation path as durable ports.
type MemoryPort struct {
	mu    sync.Mutex
	raw   []byte
	limit int
}

// NewMemoryPort creates a MemoryPort trimming sessions to limit messages.
func NewMemoryPort(limit int) *MemoryPort {
	return &MemoryPort{limit: limit}
}

// Load implements Port.
func (p *MemoryPort) Load(_ context.Context) (chat.Collection, string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.raw == nil {
		return chat.Collection{}, "", nil
	}
	c, err := chat.DecodeCollection(p.raw)
	if err != nil {
		p.raw = nil
		return chat.Collection{}, "", nil
	}
	return c, chat.LatestSession(c), nil
}

// Save implements Port.
func (p *MemoryPort) Save(_ context.Context, c chat.Collection) error {
	trimmed := make(chat.Collection, len(c))
	for id, msgs := range c {
		trimmed[id] = chat.Trim(msgs, p.limit)
	}

	raw, err := chat.EncodeCollection(trimmed)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.raw = raw
	p.mu.Unlock()
	return nil
}

// Clear implements Port.
func (p *MemoryPort) Clear(_ context.Context) error {
	p.mu.Lock()
	p.raw = nil
	p.mu.Unlock()
	return nil
}

// Corrupt overwrites the slot with an unparsable blob. Only for testing
// recovery behavior.
func (p *MemoryPort) Corrupt() {
	p.mu.Lock()
	p.raw = []byte("corrupted beyond repair")
	p.mu.Unlock()
}

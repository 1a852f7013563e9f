package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/strandchat/strand/internal/chat"
	"github.com/strandchat/strand/internal/classify"
	"github.com/strandchat/strand/internal/provider"
)

// Manager drives the conversation state machine:
//
//	Uninitialized → Idle ⇄ Submitting
//
// One submission may be in flight at a time, across all sessions. A
// concurrent submit is ignored, not queued. Switching sessions while a
// call is in flight is allowed; the eventual reply is appended to the
// session captured at submit time, which may no longer be the one on
// screen.
type Manager struct {
	mu        sync.Mutex
	store     *Store
	completer Completer
	logger    *slog.Logger

	initialized bool
	inFlight    bool
	activeID    string
	input       string
	allowed     bool
	username    string

	// now is injectable for deterministic testing.
	now func() time.Time

	// notify, when set, fires after every state change. UIs use it to
	// re-render; tests use it to synchronize with the async completion.
	notify func()
}

// View is the read-only snapshot UI collaborators consume.
type View struct {
	Allowed         bool
	Username        string
	ActiveSessionID string
	Messages        []chat.Message
	Loading         bool
	Input           string
	Sessions        []chat.Summary
}

// NewManager creates a Manager over the given store and completer.
func NewManager(store *Store, completer Completer, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:     store,
		completer: completer,
		logger:    logger,
		now:       time.Now,
	}
}

// SetNotify installs the state-change hook. Must be called before Init.
func (m *Manager) SetNotify(fn func()) {
	m.mu.Lock()
	m.notify = fn
	m.mu.Unlock()
}

// SetAccess records whether the user may interact and under which display
// name. The gate screen itself lives outside the core.
func (m *Manager) SetAccess(allowed bool, username string) {
	m.mu.Lock()
	m.allowed = allowed
	m.username = username
	m.mu.Unlock()
	m.signal()
}

// Init loads persisted sessions and moves the manager to Idle. It always
// succeeds: a persistence failure starts with empty state.
func (m *Manager) Init(ctx context.Context) {
	activeID := m.store.Load(ctx)

	m.mu.Lock()
	m.activeID = activeID
	m.initialized = true
	m.mu.Unlock()
	m.signal()
}

// SetInput replaces the input buffer.
func (m *Manager) SetInput(text string) {
	m.mu.Lock()
	m.input = text
	m.mu.Unlock()
}

// Submit starts one turn exchange with the given text. It reports whether
// a submission was actually started: empty text, an uninitialized or
// gated manager, and an in-flight call all make it a no-op. On entry the
// input buffer is cleared, a session is allocated if none is active, and
// the user message becomes visible immediately — before any network
// result.
func (m *Manager) Submit(text string) bool {
	trimmed := strings.TrimSpace(text)

	m.mu.Lock()
	if trimmed == "" || !m.initialized || !m.allowed || m.inFlight {
		m.mu.Unlock()
		return false
	}

	m.inFlight = true
	m.input = ""

	sessionID := m.activeID
	if sessionID == "" || !m.store.Has(sessionID) {
		sessionID = chat.NewID()
		m.activeID = sessionID
		m.logger.Info("starting new session", "session_id", sessionID)
	}
	m.mu.Unlock()

	userMsg := chat.Message{
		ID:          chat.NewID(),
		Role:        chat.RoleUser,
		Content:     trimmed,
		CreatedAt:   m.now(),
		ContentType: chat.ContentText,
	}
	history := append(m.store.Messages(sessionID), userMsg)
	m.store.Upsert(context.Background(), sessionID, history)
	m.signal()

	turns := make([]provider.Turn, 0, len(history))
	for _, msg := range history {
		turns = append(turns, provider.Turn{
			Role:    provider.MessageRole(msg.Role),
			Content: msg.Content,
		})
	}

	go m.complete(sessionID, turns)
	return true
}

// complete performs the outgoing call for one submission and appends its
// outcome to the session captured at submit time. The base is re-read
// from the store rather than carried over from submit, so the appended
// list never exceeds the trim cap by more than the one new message, even
// while the persistence write is still in flight. There is no cancel
// transition: the only ways out of Submitting are the two outcomes below.
func (m *Manager) complete(sessionID string, turns []provider.Turn) {
	reply, err := m.completer.Complete(context.Background(), turns)

	var msg chat.Message
	if err != nil {
		m.logger.Error("chat submission failed", "session_id", sessionID, "error", err)
		msg = chat.Message{
			ID:        chat.NewID(),
			Role:      chat.RoleSystem,
			Content:   fmt.Sprintf("Sorry, I encountered an error. Please try again. (%v)", err),
			CreatedAt: m.now(),
		}
	} else {
		msg = chat.Message{
			ID:          chat.NewID(),
			Role:        chat.RoleAssistant,
			Content:     reply,
			CreatedAt:   m.now(),
			ContentType: classify.Content(reply),
		}
	}

	m.store.Upsert(context.Background(), sessionID, append(m.store.Messages(sessionID), msg))

	m.mu.Lock()
	m.inFlight = false
	m.mu.Unlock()
	m.signal()
}

// SwitchSession activates the session with the given id and clears the
// input buffer. An empty id deactivates the current session. An unknown
// id is a logged no-op.
func (m *Manager) SwitchSession(id string) {
	if id != "" && !m.store.Has(id) {
		m.logger.Warn("session not found", "session_id", id)
		return
	}

	m.mu.Lock()
	m.activeID = id
	m.input = ""
	m.mu.Unlock()
	m.signal()
}

// StartNewSession deactivates the current session so the next submit
// allocates a fresh id. No id is allocated here.
func (m *Manager) StartNewSession() {
	m.mu.Lock()
	m.activeID = ""
	m.input = ""
	m.mu.Unlock()
	m.signal()
}

// ClearAll wipes the entire collection, the active session pointer, the
// input buffer, and the durable slot.
func (m *Manager) ClearAll(ctx context.Context) {
	m.store.WipeAll(ctx)

	m.mu.Lock()
	m.activeID = ""
	m.input = ""
	m.mu.Unlock()
	m.signal()
}

// View returns the current snapshot for rendering. Loading covers both
// the uninitialized phase and an in-flight submission.
func (m *Manager) View() View {
	m.mu.Lock()
	activeID := m.activeID
	v := View{
		Allowed:         m.allowed,
		Username:        m.username,
		ActiveSessionID: activeID,
		Loading:         m.inFlight || !m.initialized,
		Input:           m.input,
	}
	m.mu.Unlock()

	if activeID != "" {
		v.Messages = m.store.Messages(activeID)
	}
	v.Sessions = m.store.Summaries()
	return v
}

func (m *Manager) signal() {
	m.mu.Lock()
	fn := m.notify
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Package chat defines the conversation domain model: messages, session
// collections, and the durable wire form they are stored in.
package chat

import (
	"encoding/json"
	"time"
)

// Role identifies the sender of a message in a conversation.
type Role string

// Role constants for conversation messages.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// ContentType is an advisory rendering hint attached to assistant replies.
// It never affects control flow.
type ContentType string

// ContentType constants.
const (
	ContentText ContentType = "text"
	ContentCode ContentType = "code"
	ContentJSON ContentType = "json"
)

// Message is a single turn within a session. Immutable once created.
type Message struct {
	ID          string      `json:"id"`
	Role        Role        `json:"role"`
	Content     string      `json:"content"`
	CreatedAt   time.Time   `json:"createdAt"`
	ContentType ContentType `json:"contentType,omitempty"`
}

// Collection maps session id to that session's ordered message list.
type Collection map[string][]Message

// storedMessage is the durable wire form of a Message. Timestamps travel
// as text so a malformed value can be dropped instead of failing the
// whole decode.
type storedMessage struct {
	ID          string      `json:"id"`
	Role        Role        `json:"role"`
	Content     string      `json:"content"`
	CreatedAt   string      `json:"createdAt"`
	ContentType ContentType `json:"contentType,omitempty"`
}

// EncodeCollection serializes a collection to its durable form. The caller
// is responsible for applying the per-session trim limit first.
func EncodeCollection(c Collection) ([]byte, error) {
	stored := make(map[string][]storedMessage, len(c))
	for id, msgs := range c {
		out := make([]storedMessage, 0, len(msgs))
		for _, m := range msgs {
			out = append(out, storedMessage{
				ID:          m.ID,
				Role:        m.Role,
				Content:     m.Content,
				CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339Nano),
				ContentType: m.ContentType,
			})
		}
		stored[id] = out
	}
	return json.Marshal(stored)
}

// DecodeCollection parses the durable form with drop-and-continue
// validation: a message missing an id, content, or a parsable timestamp is
// silently dropped; an unknown role is coerced to system. Sessions keep
// their valid subset. Only an unparsable top-level blob returns an error.
func DecodeCollection(raw []byte) (Collection, error) {
	var stored map[string][]storedMessage
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, err
	}

	c := make(Collection, len(stored))
	for id, msgs := range stored {
		valid := make([]Message, 0, len(msgs))
		for _, m := range msgs {
			if m.ID == "" || m.Content == "" {
				continue
			}
			createdAt, err := time.Parse(time.RFC3339Nano, m.CreatedAt)
			if err != nil {
				continue
			}
			role := m.Role
			if !role.Valid() {
				role = RoleSystem
			}
			valid = append(valid, Message{
				ID:          m.ID,
				Role:        role,
				Content:     m.Content,
				CreatedAt:   createdAt,
				ContentType: m.ContentType,
			})
		}
		c[id] = valid
	}
	return c, nil
}

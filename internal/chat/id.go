package chat

import (
	"crypto/rand"
	"encoding/hex"
)

// NewID produces a 32-character hex string from 16 random bytes.
// crypto/rand provides collision resistance without external
// dependencies. An entropy failure panics: a colliding id would silently
// corrupt the session collection, which is worse than crashing.
func NewID() string {
	var buf [16]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("chat: reading random id: " + err.Error())
	}
	return hex.EncodeToString(buf[:])
}

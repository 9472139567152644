package memory

import (
	"sync"

	"github.com/google/uuid"
)

// Session is the live in-process handle for one (username, chatbotID)
// conversation. The registry owns all sessions; callers get snapshots and
// mutate only through the registry so the append→flush cycle stays
// serialized per key.
type Session struct {
	mu        sync.Mutex
	username  string
	chatbotID uuid.UUID
	turns     []Turn
}

func newSession(username string, chatbotID uuid.UUID, turns []Turn) *Session {
	return &Session{
		username:  username,
		chatbotID: chatbotID,
		turns:     turns,
	}
}

func (s *Session) Username() string { return s.username }

func (s *Session) ChatbotID() uuid.UUID { return s.chatbotID }

// History returns a copy of the current turn sequence.
func (s *Session) History() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Len returns the current turn count.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.turns)
}

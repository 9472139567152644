package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Registry maps (username, chatbotID) to a live Session, lazily loading
// from the ConversationStore on first use. It is the only shared mutable
// structure on the chat path: sessions never expire and are evicted only
// by Clear.
type Registry struct {
	store    ConversationStore
	sessions *cache.Cache
	loads    singleflight.Group
}

func NewRegistry(store ConversationStore) *Registry {
	return &Registry{
		store:    store,
		sessions: cache.New(cache.NoExpiration, 0),
	}
}

func sessionKey(username string, chatbotID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", username, chatbotID)
}

// GetOrCreate returns the resident session for the key, loading persisted
// turns when the key is seen for the first time. Concurrent calls for the
// same key always converge on a single session; a load in flight for one
// key never delays lookups for another.
func (r *Registry) GetOrCreate(ctx context.Context, username string, chatbotID uuid.UUID) (*Session, error) {
	key := sessionKey(username, chatbotID)

	if x, found := r.sessions.Get(key); found {
		return x.(*Session), nil
	}

	// First touch goes through singleflight keyed per session, so only
	// duplicate requests for THIS key wait on the store load.
	v, err, _ := r.loads.Do(key, func() (interface{}, error) {
		if x, found := r.sessions.Get(key); found {
			return x, nil
		}

		turns, err := r.store.Load(ctx, username, chatbotID)
		if err != nil {
			return nil, fmt.Errorf("failed to load conversation: %w", err)
		}

		session := newSession(username, chatbotID, turns)
		r.sessions.Set(key, session, cache.NoExpiration)
		return session, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// CommitExchange appends the user turn and the assistant turn and flushes
// the session in one step. Both turns land before the flush, so a flush
// failure can never leave an orphaned user-only turn on disk. A cancelled
// context commits nothing.
func (r *Registry) CommitExchange(ctx context.Context, session *Session, question, answer string) error {
	session.mu.Lock()
	defer session.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	session.turns = append(session.turns,
		Turn{Role: RoleUser, Content: question},
		Turn{Role: RoleAssistant, Content: answer},
	)

	return r.store.Save(ctx, session.username, session.chatbotID, session.turns)
}

// Flush rewrites the durable record from the session's current state.
// With no intervening appends the record is byte-identical.
func (r *Registry) Flush(ctx context.Context, session *Session) error {
	session.mu.Lock()
	defer session.mu.Unlock()
	return r.store.Save(ctx, session.username, session.chatbotID, session.turns)
}

// Clear evicts the resident session and removes the durable record.
func (r *Registry) Clear(ctx context.Context, username string, chatbotID uuid.UUID) error {
	key := sessionKey(username, chatbotID)

	r.sessions.Delete(key)
	r.loads.Forget(key)
	return r.store.Clear(ctx, username, chatbotID)
}

// Resident reports whether a session for the key is currently loaded.
func (r *Registry) Resident(username string, chatbotID uuid.UUID) bool {
	_, found := r.sessions.Get(sessionKey(username, chatbotID))
	return found
}

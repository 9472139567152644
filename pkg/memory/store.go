package memory

import (
	"context"

	"github.com/google/uuid"
)

// ConversationStore is the durable backend for conversation histories.
// One record per (username, chatbotID) pair, holding the full ordered
// turn sequence.
type ConversationStore interface {
	// Load returns the persisted turns for the pair. A missing record is
	// not an error: it returns an empty slice. An unreadable record is
	// treated the same way (degraded, logged by the implementation).
	Load(ctx context.Context, username string, chatbotID uuid.UUID) ([]Turn, error)

	// Save overwrites the full record. From a concurrent reader's
	// perspective the overwrite is atomic: a partial write must never be
	// observable.
	Save(ctx context.Context, username string, chatbotID uuid.UUID, turns []Turn) error

	// Clear removes the record. Load after Clear returns empty.
	Clear(ctx context.Context, username string, chatbotID uuid.UUID) error
}

package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"persona-chat-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// fileRecord is the on-disk shape of one conversation.
type fileRecord struct {
	Turns []Turn `json:"turns"`
}

// FileStore persists one JSON file per (username, chatbotID) pair.
// Writes go through a temp file followed by rename, so a crash mid-write
// leaves either the old record or the new one, never a truncated file.
type FileStore struct {
	dir    string
	logger logger.ILogger
}

func NewFileStore(dir string, log logger.ILogger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create memory directory: %w", err)
	}
	return &FileStore{dir: dir, logger: log}, nil
}

// recordPath escapes the username so path separators and other hostile
// characters can never address a file outside the store directory.
func (s *FileStore) recordPath(username string, chatbotID uuid.UUID) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%s_memory.json", url.PathEscape(username), chatbotID))
}

func (s *FileStore) Load(ctx context.Context, username string, chatbotID uuid.UUID) ([]Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.recordPath(username, chatbotID))
	if err != nil {
		if os.IsNotExist(err) {
			return []Turn{}, nil
		}
		// Unreadable record: the conversation log is an optimization,
		// not a source of truth. Degrade to empty and keep serving.
		s.logger.Warn("memory", "conversation record unreadable, starting empty", map[string]interface{}{
			"username":   username,
			"chatbot_id": chatbotID.String(),
			"error":      err.Error(),
		})
		return []Turn{}, nil
	}

	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		s.logger.Warn("memory", "conversation record corrupt, starting empty", map[string]interface{}{
			"username":   username,
			"chatbot_id": chatbotID.String(),
			"error":      err.Error(),
		})
		return []Turn{}, nil
	}
	if rec.Turns == nil {
		rec.Turns = []Turn{}
	}
	return rec.Turns, nil
}

func (s *FileStore) Save(ctx context.Context, username string, chatbotID uuid.UUID, turns []Turn) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(fileRecord{Turns: turns})
	if err != nil {
		return fmt.Errorf("failed to encode conversation record: %w", err)
	}

	target := s.recordPath(username, chatbotID)
	tmp, err := os.CreateTemp(s.dir, ".memory-*")
	if err != nil {
		return fmt.Errorf("failed to create temp record: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write conversation record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close conversation record: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to commit conversation record: %w", err)
	}
	return nil
}

func (s *FileStore) Clear(ctx context.Context, username string, chatbotID uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Remove(s.recordPath(username, chatbotID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove conversation record: %w", err)
	}
	return nil
}

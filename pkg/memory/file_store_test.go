package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), nopLogger{})
	require.NoError(t, err)
	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	botID := uuid.New()

	turns := []Turn{
		{Role: RoleUser, Content: "hello"},
		{Role: RoleAssistant, Content: "hi there"},
	}
	require.NoError(t, store.Save(ctx, "alice", botID, turns))

	loaded, err := store.Load(ctx, "alice", botID)
	require.NoError(t, err)
	assert.Equal(t, turns, loaded)
}

func TestFileStoreMissingRecordIsEmpty(t *testing.T) {
	store := newTestStore(t)

	loaded, err := store.Load(context.Background(), "nobody", uuid.New())
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileStoreCorruptRecordIsEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	botID := uuid.New()

	path := store.recordPath("alice", botID)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	loaded, err := store.Load(ctx, "alice", botID)
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestFileStoreSaveOverwritesFully(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	botID := uuid.New()

	long := []Turn{
		{Role: RoleUser, Content: "a very long question that takes space"},
		{Role: RoleAssistant, Content: "a very long answer that takes even more space"},
	}
	require.NoError(t, store.Save(ctx, "alice", botID, long))

	short := []Turn{{Role: RoleUser, Content: "ok"}}
	require.NoError(t, store.Save(ctx, "alice", botID, short))

	// The record must be exactly the new state, no trailing bytes from
	// the longer previous write.
	data, err := os.ReadFile(store.recordPath("alice", botID))
	require.NoError(t, err)
	var rec fileRecord
	require.NoError(t, json.Unmarshal(data, &rec))
	assert.Equal(t, short, rec.Turns)
}

func TestFileStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, nopLogger{})
	require.NoError(t, err)

	botID := uuid.New()
	for i := 0; i < 5; i++ {
		turns := []Turn{{Role: RoleUser, Content: fmt.Sprintf("q%d", i)}}
		require.NoError(t, store.Save(context.Background(), "alice", botID, turns))
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, fmt.Sprintf("alice_%s_memory.json", botID), entries[0].Name())
}

func TestFileStoreClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	botID := uuid.New()

	require.NoError(t, store.Save(ctx, "alice", botID, []Turn{{Role: RoleUser, Content: "q"}}))
	require.NoError(t, store.Clear(ctx, "alice", botID))

	loaded, err := store.Load(ctx, "alice", botID)
	require.NoError(t, err)
	assert.Empty(t, loaded)

	// Clear on a missing record is not an error
	require.NoError(t, store.Clear(ctx, "alice", botID))
}

func TestFileStoreHostileUsernameStaysInsideDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, nopLogger{})
	require.NoError(t, err)

	ctx := context.Background()
	botID := uuid.New()

	require.NoError(t, store.Save(ctx, "../outside", botID, []Turn{{Role: RoleUser, Content: "q"}}))

	// Nothing landed next to the store directory
	assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), fmt.Sprintf("outside_%s_memory.json", botID)))

	// The record is addressable inside the directory and round-trips
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	loaded, err := store.Load(ctx, "../outside", botID)
	require.NoError(t, err)
	assert.Equal(t, "q", loaded[0].Content)

	// Clear removes the escaped record, not anything outside
	require.NoError(t, store.Clear(ctx, "../outside", botID))
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStoreKeyIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	botID := uuid.New()

	require.NoError(t, store.Save(ctx, "alice", botID, []Turn{{Role: RoleUser, Content: "alice q"}}))
	require.NoError(t, store.Save(ctx, "bob", botID, []Turn{{Role: RoleUser, Content: "bob q"}}))

	aliceTurns, err := store.Load(ctx, "alice", botID)
	require.NoError(t, err)
	bobTurns, err := store.Load(ctx, "bob", botID)
	require.NoError(t, err)

	assert.Equal(t, "alice q", aliceTurns[0].Content)
	assert.Equal(t, "bob q", bobTurns[0].Content)

	// Two distinct files on disk
	assert.FileExists(t, filepath.Join(store.dir, fmt.Sprintf("alice_%s_memory.json", botID)))
	assert.FileExists(t, filepath.Join(store.dir, fmt.Sprintf("bob_%s_memory.json", botID)))
}

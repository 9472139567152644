package memory

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(newTestStore(t))
}

func TestRegistryGetOrCreateIsIdempotent(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()
	botID := uuid.New()

	first, err := reg.GetOrCreate(ctx, "alice", botID)
	require.NoError(t, err)
	second, err := reg.GetOrCreate(ctx, "alice", botID)
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestRegistryExchangeAppendsTwoTurns(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()
	botID := uuid.New()

	session, err := reg.GetOrCreate(ctx, "alice", botID)
	require.NoError(t, err)

	const n = 4
	for i := 0; i < n; i++ {
		q := fmt.Sprintf("question %d", i)
		a := fmt.Sprintf("answer %d", i)
		require.NoError(t, reg.CommitExchange(ctx, session, q, a))
	}

	history := session.History()
	require.Len(t, history, 2*n)
	for i := 0; i < n; i++ {
		assert.Equal(t, RoleUser, history[2*i].Role)
		assert.Equal(t, RoleAssistant, history[2*i+1].Role)
	}
}

func TestRegistryConcurrentExchangesSameKey(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()
	botID := uuid.New()

	session, err := reg.GetOrCreate(ctx, "alice", botID)
	require.NoError(t, err)

	const workers = 8
	const perWorker = 5

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				q := fmt.Sprintf("w%d q%d", w, i)
				a := fmt.Sprintf("w%d a%d", w, i)
				_ = reg.CommitExchange(ctx, session, q, a)
			}
		}(w)
	}
	wg.Wait()

	// Every exchange landed and no interleaving split a pair
	history := session.History()
	require.Len(t, history, 2*workers*perWorker)
	for i := 0; i < len(history); i += 2 {
		assert.Equal(t, RoleUser, history[i].Role)
		assert.Equal(t, RoleAssistant, history[i+1].Role)
	}
}

func TestRegistryConcurrentFirstTouchSingleSession(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()
	botID := uuid.New()

	const workers = 16
	sessions := make([]*Session, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sessions[i], errs[i] = reg.GetOrCreate(ctx, "alice", botID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
	}
	for i := 1; i < workers; i++ {
		assert.Same(t, sessions[0], sessions[i])
	}
}

type slowStore struct {
	ConversationStore
	slowUser string
	delay    time.Duration
}

func (s *slowStore) Load(ctx context.Context, username string, chatbotID uuid.UUID) ([]Turn, error) {
	if username == s.slowUser {
		time.Sleep(s.delay)
	}
	return s.ConversationStore.Load(ctx, username, chatbotID)
}

func TestRegistrySlowLoadDoesNotBlockOtherKeys(t *testing.T) {
	store := &slowStore{
		ConversationStore: newTestStore(t),
		slowUser:          "carol",
		delay:             200 * time.Millisecond,
	}
	reg := NewRegistry(store)
	ctx := context.Background()

	aliceBot := uuid.New()
	_, err := reg.GetOrCreate(ctx, "alice", aliceBot)
	require.NoError(t, err)

	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		close(started)
		_, _ = reg.GetOrCreate(ctx, "carol", uuid.New())
		close(done)
	}()
	<-started
	time.Sleep(20 * time.Millisecond)

	// With carol's load still in flight, both a resident lookup and a
	// fresh first touch for other keys must return promptly.
	begin := time.Now()
	_, err = reg.GetOrCreate(ctx, "alice", aliceBot)
	require.NoError(t, err)
	_, err = reg.GetOrCreate(ctx, "bob", uuid.New())
	require.NoError(t, err)
	assert.Less(t, time.Since(begin), 100*time.Millisecond)

	<-done
}

func TestRegistryFlushIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	reg := NewRegistry(store)
	ctx := context.Background()
	botID := uuid.New()

	session, err := reg.GetOrCreate(ctx, "alice", botID)
	require.NoError(t, err)
	require.NoError(t, reg.CommitExchange(ctx, session, "q", "a"))

	require.NoError(t, reg.Flush(ctx, session))
	first, err := os.ReadFile(store.recordPath("alice", botID))
	require.NoError(t, err)

	// A second flush with no intervening append rewrites the identical bytes
	require.NoError(t, reg.Flush(ctx, session))
	second, err := os.ReadFile(store.recordPath("alice", botID))
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, session.History(), 2)
}

func TestRegistryLoadsPersistedHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	botID := uuid.New()

	seeded := []Turn{
		{Role: RoleUser, Content: "earlier question"},
		{Role: RoleAssistant, Content: "earlier answer"},
	}
	require.NoError(t, store.Save(ctx, "alice", botID, seeded))

	reg := NewRegistry(store)
	session, err := reg.GetOrCreate(ctx, "alice", botID)
	require.NoError(t, err)

	assert.Equal(t, seeded, session.History())
}

func TestRegistryClearEvictsAndDeletes(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()
	botID := uuid.New()

	session, err := reg.GetOrCreate(ctx, "alice", botID)
	require.NoError(t, err)
	require.NoError(t, reg.CommitExchange(ctx, session, "q", "a"))
	require.True(t, reg.Resident("alice", botID))

	require.NoError(t, reg.Clear(ctx, "alice", botID))
	assert.False(t, reg.Resident("alice", botID))

	// A fresh session starts from nothing
	fresh, err := reg.GetOrCreate(ctx, "alice", botID)
	require.NoError(t, err)
	assert.NotSame(t, session, fresh)
	assert.Empty(t, fresh.History())
}

func TestRegistryUserIsolation(t *testing.T) {
	reg := newTestRegistry(t)
	ctx := context.Background()
	botID := uuid.New()

	aliceSession, err := reg.GetOrCreate(ctx, "alice", botID)
	require.NoError(t, err)
	bobSession, err := reg.GetOrCreate(ctx, "bob", botID)
	require.NoError(t, err)

	require.NoError(t, reg.CommitExchange(ctx, aliceSession, "alice q", "alice a"))

	assert.Len(t, aliceSession.History(), 2)
	assert.Empty(t, bobSession.History())
}

type failingStore struct {
	ConversationStore
	saveErr error
}

func (f *failingStore) Save(ctx context.Context, username string, chatbotID uuid.UUID, turns []Turn) error {
	return f.saveErr
}

func TestRegistryCommitSurfacesFlushFailure(t *testing.T) {
	store := &failingStore{
		ConversationStore: newTestStore(t),
		saveErr:           errors.New("disk full"),
	}
	reg := NewRegistry(store)
	ctx := context.Background()

	session, err := reg.GetOrCreate(ctx, "alice", uuid.New())
	require.NoError(t, err)

	err = reg.CommitExchange(ctx, session, "q", "a")
	require.Error(t, err)

	// The in-process session keeps the turns even when the flush failed
	assert.Len(t, session.History(), 2)
}

func TestRegistryCancelledContextCommitsNothing(t *testing.T) {
	reg := newTestRegistry(t)
	botID := uuid.New()

	session, err := reg.GetOrCreate(context.Background(), "alice", botID)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	err = reg.CommitExchange(cancelled, session, "q", "a")
	require.Error(t, err)
	assert.Empty(t, session.History())
}

// FILE: internal/service/chatbot_service_test.go
package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/repository/cache"
	"persona-chat-be/pkg/ingest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newChatbotFixture(t *testing.T) (IChatbotService, *fakeUoW) {
	t.Helper()

	uow := &fakeUoW{
		chatbotRepo: &fakeChatbotRepo{},
		chunkRepo:   &fakeChunkRepo{},
		userRepo:    &fakeUserRepo{users: []*entity.User{{Id: uuid.New(), Username: "alice"}}},
		docRepo:     &fakeDocumentRepo{},
	}

	svc := NewChatbotService(
		&fakeFactory{uow: uow},
		ingest.NewProcessor(fixedEmbedder{}),
		nil,
		nil,
		cache.NewChatbotLookupCache(nil),
	)
	return svc, uow
}

func writeTempDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func validCreateRequest() *dto.CreateChatbotRequest {
	return &dto.CreateChatbotRequest{
		Name:          "sherlock",
		Description:   "a consulting detective",
		PersonaPrompt: "You are Sherlock Holmes.",
	}
}

func TestCreateChatbotIndexesDocument(t *testing.T) {
	svc, uow := newChatbotFixture(t)

	docPath := writeTempDoc(t, "knowledge.txt", "Sherlock Holmes lives at 221B Baker Street.")

	res, err := svc.Create(context.Background(), "alice", validCreateRequest(), docPath, "knowledge.txt")
	require.NoError(t, err)

	assert.Equal(t, "sherlock", res.Name)
	assert.Greater(t, res.ChunkCount, 0)
	assert.Len(t, uow.chatbotRepo.chatbots, 1)
	require.Len(t, uow.docRepo.docs, 1)
	assert.Equal(t, "knowledge.txt", uow.docRepo.docs[0].Filename)
}

func TestCreateChatbotRemovesUploadedFile(t *testing.T) {
	svc, _ := newChatbotFixture(t)

	docPath := writeTempDoc(t, "knowledge.txt", "Sherlock Holmes lives at 221B Baker Street.")

	_, err := svc.Create(context.Background(), "alice", validCreateRequest(), docPath, "knowledge.txt")
	require.NoError(t, err)

	assert.NoFileExists(t, docPath)
}

func TestCreateChatbotRemovesUploadOnBadFile(t *testing.T) {
	svc, uow := newChatbotFixture(t)

	docPath := writeTempDoc(t, "image.png", "not really text")

	_, err := svc.Create(context.Background(), "alice", validCreateRequest(), docPath, "image.png")
	require.ErrorIs(t, err, ErrUnsupportedFile)

	// A rejected upload must not linger either
	assert.NoFileExists(t, docPath)
	assert.Empty(t, uow.chatbotRepo.chatbots)
}

func TestCreateChatbotUnknownOwner(t *testing.T) {
	svc, uow := newChatbotFixture(t)
	uow.userRepo.users = nil

	docPath := writeTempDoc(t, "knowledge.txt", "some text")

	_, err := svc.Create(context.Background(), "ghost", validCreateRequest(), docPath, "knowledge.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `owner "ghost" not found`)
	assert.NotContains(t, err.Error(), "%!w")
}

func TestCreateChatbotDuplicateName(t *testing.T) {
	svc, uow := newChatbotFixture(t)
	uow.chatbotRepo.chatbots = []*entity.Chatbot{{Id: uuid.New(), Name: "sherlock"}}

	docPath := writeTempDoc(t, "knowledge.txt", "some text")

	_, err := svc.Create(context.Background(), "alice", validCreateRequest(), docPath, "knowledge.txt")
	require.ErrorIs(t, err, ErrChatbotExists)
}

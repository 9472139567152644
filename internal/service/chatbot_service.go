// FILE: internal/service/chatbot_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/repository/cache"
	"persona-chat-be/internal/repository/specification"
	"persona-chat-be/internal/repository/unitofwork"
	"persona-chat-be/pkg/events"
	"persona-chat-be/pkg/ingest"
	pktNats "persona-chat-be/pkg/nats"

	"github.com/google/uuid"
)

type IChatbotService interface {
	Create(ctx context.Context, username string, req *dto.CreateChatbotRequest, documentPath, documentName string) (*dto.CreateChatbotResponse, error)
	GetAll(ctx context.Context, username string) ([]*dto.ChatbotSummaryResponse, error)
	AppendDocument(ctx context.Context, username, chatbotName, documentPath, documentName string) (*dto.AppendDocumentResponse, error)
}

type chatbotService struct {
	uowFactory       unitofwork.RepositoryFactory
	processor        *ingest.Processor
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	lookupCache      *cache.ChatbotLookupCache
}

func NewChatbotService(
	uowFactory unitofwork.RepositoryFactory,
	processor *ingest.Processor,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	lookupCache *cache.ChatbotLookupCache,
) IChatbotService {
	return &chatbotService{
		uowFactory:       uowFactory,
		processor:        processor,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		lookupCache:      lookupCache,
	}
}

// Create registers a chatbot and indexes its initial knowledge document
// synchronously, so the bot is immediately able to answer.
func (s *chatbotService) Create(ctx context.Context, username string, req *dto.CreateChatbotRequest, documentPath, documentName string) (*dto.CreateChatbotResponse, error) {
	// The stored upload is only needed for this ingestion pass
	defer os.Remove(documentPath)

	uow := s.uowFactory.NewUnitOfWork(ctx)

	owner, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		return nil, fmt.Errorf("owner lookup failed: %w", err)
	}
	if owner == nil {
		return nil, fmt.Errorf("owner %q not found", username)
	}

	// Names are unique per owner only
	existing, err := uow.ChatbotRepository().FindOne(ctx,
		specification.OwnedBy{UserID: owner.Id},
		specification.ByName{Name: req.Name},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrChatbotExists
	}

	// Index the initial document before touching the database, so a bad
	// file never leaves a chatbot without knowledge behind.
	chunks, err := s.processor.Process(ctx, documentPath)
	if err != nil {
		if err == ingest.ErrUnsupportedFormat {
			return nil, ErrUnsupportedFile
		}
		return nil, err
	}

	now := time.Now()
	chatbot := &entity.Chatbot{
		Id:            uuid.New(),
		UserId:        owner.Id,
		Name:          req.Name,
		Description:   req.Description,
		PersonaPrompt: req.PersonaPrompt,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	chunkEntities := make([]*entity.ChatbotChunk, 0, len(chunks))
	for _, c := range chunks {
		chunkEntities = append(chunkEntities, &entity.ChatbotChunk{
			Id:         uuid.New(),
			ChatbotId:  chatbot.Id,
			Content:    c.Content,
			Embedding:  c.Embedding,
			ChunkIndex: c.Index,
			CreatedAt:  now,
		})
	}

	document := &entity.ChatbotDocument{
		Id:        uuid.New(),
		ChatbotId: chatbot.Id,
		Filename:  documentName,
		Metadata: map[string]interface{}{
			"extension":   filepath.Ext(documentName),
			"chunk_count": len(chunkEntities),
		},
		CreatedAt: now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ChatbotRepository().Create(ctx, chatbot); err != nil {
		return nil, err
	}
	if len(chunkEntities) > 0 {
		if err := uow.ChatbotChunkRepository().CreateBulk(ctx, chunkEntities); err != nil {
			return nil, err
		}
	}
	if err := uow.ChatbotDocumentRepository().Create(ctx, document); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.NewChatbotCreatedEvent(chatbot.Id.String(), owner.Id.String(), chatbot.Name)
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish CHATBOT_CREATED event: %v\n", err)
		}
	}

	return &dto.CreateChatbotResponse{
		Id:         chatbot.Id,
		Name:       chatbot.Name,
		ChunkCount: len(chunkEntities),
	}, nil
}

func (s *chatbotService) GetAll(ctx context.Context, username string) ([]*dto.ChatbotSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chatbots, err := uow.ChatbotRepository().FindAll(ctx,
		specification.OwnedByUsername{Username: username},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.ChatbotSummaryResponse, 0, len(chatbots))
	for _, bot := range chatbots {
		response = append(response, &dto.ChatbotSummaryResponse{
			Id:          bot.Id,
			Name:        bot.Name,
			Description: bot.Description,
			CreatedAt:   bot.CreatedAt,
		})
	}

	return response, nil
}

// AppendDocument queues a document for async indexing into an existing
// chatbot's knowledge base.
func (s *chatbotService) AppendDocument(ctx context.Context, username, chatbotName, documentPath, documentName string) (*dto.AppendDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chatbot, err := s.resolveChatbot(ctx, uow, username, chatbotName)
	if err != nil {
		return nil, err
	}

	document := &entity.ChatbotDocument{
		Id:        uuid.New(),
		ChatbotId: chatbot.Id,
		Filename:  documentName,
		Metadata: map[string]interface{}{
			"extension": filepath.Ext(documentName),
			"status":    "queued",
		},
		CreatedAt: time.Now(),
	}

	if err := uow.ChatbotDocumentRepository().Create(ctx, document); err != nil {
		return nil, err
	}

	msgPayload := dto.PublishIngestDocumentMessage{
		DocumentId: document.Id,
		ChatbotId:  chatbot.Id,
		FilePath:   documentPath,
		Filename:   documentName,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}

	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	return &dto.AppendDocumentResponse{
		DocumentId: document.Id,
		Filename:   documentName,
		Status:     "queued",
	}, nil
}

// resolveChatbot finds a chatbot scoped to its owner, going through the
// lookup cache first.
func (s *chatbotService) resolveChatbot(ctx context.Context, uow unitofwork.UnitOfWork, username, chatbotName string) (*entity.Chatbot, error) {
	if cached, ok := s.lookupCache.Get(ctx, username, chatbotName); ok {
		return cached, nil
	}

	chatbot, err := uow.ChatbotRepository().FindOne(ctx,
		specification.OwnedByUsername{Username: username},
		specification.ByName{Name: chatbotName},
	)
	if err != nil {
		return nil, err
	}
	if chatbot == nil {
		return nil, ErrChatbotNotFound
	}

	s.lookupCache.Set(ctx, username, chatbot)
	return chatbot, nil
}

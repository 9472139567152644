// FILE: internal/service/chat_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"persona-chat-be/internal/constant"
	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/repository/cache"
	"persona-chat-be/internal/repository/specification"
	"persona-chat-be/internal/repository/unitofwork"
	"persona-chat-be/pkg/answer"
	"persona-chat-be/pkg/events"
	"persona-chat-be/pkg/memory"
	pktNats "persona-chat-be/pkg/nats"
	"persona-chat-be/pkg/rag"
)

type IChatService interface {
	SendChat(ctx context.Context, username string, req *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetHistory(ctx context.Context, username, chatbotName string) (*dto.ChatHistoryResponse, error)
	ClearMemory(ctx context.Context, username, chatbotName string) error
}

// chatService orchestrates one chat exchange: resolve the chatbot, attach
// the conversation session, retrieve grounding context, compose the
// answer, then commit the exchange.
type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	registry       *memory.Registry
	indexAccess    *rag.IndexAccess
	composer       *answer.Composer
	lookupCache    *cache.ChatbotLookupCache
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	registry *memory.Registry,
	indexAccess *rag.IndexAccess,
	composer *answer.Composer,
	lookupCache *cache.ChatbotLookupCache,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		registry:       registry,
		indexAccess:    indexAccess,
		composer:       composer,
		lookupCache:    lookupCache,
		eventPublisher: eventPublisher,
		logger:         sysLogger,
	}
}

func (s *chatService) SendChat(ctx context.Context, username string, req *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chatbot, err := s.resolveChatbot(ctx, uow, username, req.ChatbotName)
	if err != nil {
		return nil, err
	}

	session, err := s.registry.GetOrCreate(ctx, username, chatbot.Id)
	if err != nil {
		return nil, err
	}

	retriever, err := s.indexAccess.GetRetriever(ctx, chatbot.Id)
	if err != nil {
		// rag.ErrIndexNotFound passes through so the controller can
		// report a precise failure
		return nil, err
	}

	// Snapshot history before this exchange: the question being asked
	// must not appear in its own prompt
	history := session.History()

	chunks, err := retriever.Retrieve(ctx, req.Question)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	reply, err := s.composer.Compose(ctx,
		chatbot.Name,
		chatbot.Description,
		chatbot.PersonaPrompt,
		chunks,
		history,
		req.Question,
	)
	if err != nil {
		return nil, err
	}

	// The answer is already produced. A persistence failure loses future
	// context but must not lose this exchange for the caller.
	if err := s.registry.CommitExchange(ctx, session, req.Question, reply); err != nil {
		s.logger.Error("chat", "failed to persist conversation exchange", map[string]interface{}{
			"username":   username,
			"chatbot_id": chatbot.Id.String(),
			"error":      err.Error(),
		})
	}

	if s.eventPublisher != nil {
		evt := events.NewChatExchangeCompletedEvent(chatbot.Id.String(), username, session.Len())
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			s.logger.Warn("chat", "failed to publish chat exchange event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &dto.SendChatResponse{
		ChatbotName: chatbot.Name,
		Question:    req.Question,
		Answer:      reply,
		HistoryLen:  session.Len(),
		AnsweredAt:  time.Now(),
	}, nil
}

func (s *chatService) GetHistory(ctx context.Context, username, chatbotName string) (*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chatbot, err := s.resolveChatbot(ctx, uow, username, chatbotName)
	if err != nil {
		return nil, err
	}

	session, err := s.registry.GetOrCreate(ctx, username, chatbot.Id)
	if err != nil {
		return nil, err
	}

	turns := session.History()
	dtos := make([]dto.ChatTurnDTO, 0, len(turns))
	for _, t := range turns {
		role := constant.ChatRoleUser
		if t.Role == memory.RoleAssistant {
			role = constant.ChatRoleAssistant
		}
		dtos = append(dtos, dto.ChatTurnDTO{Role: role, Content: t.Content})
	}

	return &dto.ChatHistoryResponse{
		ChatbotName: chatbot.Name,
		Turns:       dtos,
	}, nil
}

func (s *chatService) ClearMemory(ctx context.Context, username, chatbotName string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chatbot, err := s.resolveChatbot(ctx, uow, username, chatbotName)
	if err != nil {
		return err
	}

	return s.registry.Clear(ctx, username, chatbot.Id)
}

func (s *chatService) resolveChatbot(ctx context.Context, uow unitofwork.UnitOfWork, username, chatbotName string) (*entity.Chatbot, error) {
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

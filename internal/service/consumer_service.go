// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"persona-chat-be/internal/dto"
	"persona-chat-be/internal/entity"
	"persona-chat-be/pkg/events"
	"persona-chat-be/pkg/ingest"
	pktNats "persona-chat-be/pkg/nats"

	"persona-chat-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the document ingestion queue: it extracts,
// splits, and embeds appended documents and grows the chatbot's index.
type consumerService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	uowFactory     unitofwork.RepositoryFactory
	processor      *ingest.Processor
	eventPublisher *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	processor *ingest.Processor,
	eventPublisher *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:         pubSub,
		topicName:      topicName,
		uowFactory:     uowFactory,
		processor:      processor,
		eventPublisher: eventPublisher,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIngestDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal ingest message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing document %s for chatbot %s", payload.Filename, payload.ChatbotId)

	chunks, err := cs.processor.Process(ctx, payload.FilePath)
	if err != nil {
		// Bad files never become readable on retry
		log.Printf("[ERROR] Failed to process document %s: %v", payload.Filename, err)
		os.Remove(payload.FilePath)
		msg.Ack()
		return
	}

	now := time.Now()
	chunkEntities := make([]*entity.ChatbotChunk, 0, len(chunks))
	for _, c := range chunks {
		chunkEntities = append(chunkEntities, &entity.ChatbotChunk{
			Id:         uuid.New(),
			ChatbotId:  payload.ChatbotId,
			Content:    c.Content,
			Embedding:  c.Embedding,
			ChunkIndex: c.Index,
			CreatedAt:  now,
		})
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if len(chunkEntities) > 0 {
		if err := uow.ChatbotChunkRepository().CreateBulk(ctx, chunkEntities); err != nil {
			log.Printf("[ERROR] Failed to store chunks: %v", err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	if cs.eventPublisher != nil {
		evt := events.NewDocumentIndexedEvent(payload.ChatbotId.String(), payload.Filename, len(chunkEntities))
		if err := cs.eventPublisher.Publish(ctx, evt); err != nil {
			log.Printf("[WARN] Failed to publish DOCUMENT_INDEXED event: %v", err)
		}
	}

	log.Printf("[SUCCESS] Document indexed: %d chunks for chatbot %s", len(chunkEntities), payload.ChatbotId)

	// The stored upload stays on disk only across Nack retries
	os.Remove(payload.FilePath)
	msg.Ack()
}

package bootstrap

import (
	"context"
	"log"
	"os"

	"persona-chat-be/internal/config"
	"persona-chat-be/internal/controller"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/internal/pkg/mailer"
	"persona-chat-be/internal/repository/cache"
	"persona-chat-be/internal/repository/unitofwork"
	"persona-chat-be/internal/service"
	"persona-chat-be/pkg/answer"
	"persona-chat-be/pkg/embedding"
	"persona-chat-be/pkg/ingest"
	"persona-chat-be/pkg/llm/factory"
	"persona-chat-be/pkg/memory"
	"persona-chat-be/pkg/rag"

	pktNats "persona-chat-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	ChatbotController controller.IChatbotController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// Shared loggers, exposed for shutdown flushing
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.Provider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewHuggingFaceProvider(cfg.Keys.HuggingFace, "")
		log.Printf("[INFO] Using Embedding Provider: HUGGINGFACE")
	}

	llmProvider, err := factory.NewProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Conversation Memory
	fileStore, err := memory.NewFileStore(cfg.Memory.Dir, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize conversation store: %v", err)
	}
	registry := memory.NewRegistry(fileStore)

	if err := os.MkdirAll(cfg.Upload.Dir, 0o755); err != nil {
		log.Fatalf("[FATAL] Failed to create upload directory: %v", err)
	}

	// 5. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	lookupCache := cache.NewChatbotLookupCache(rdb)

	// 6. Domain Components
	ingestProcessor := ingest.NewProcessor(embeddingProvider)
	indexAccess := rag.NewIndexAccess(unitofwork.NewUnitOfWork(db).ChatbotChunkRepository(), embeddingProvider)
	composer := answer.NewComposer(llmProvider)

	// 7. Services
	publisherService := service.NewPublisherService(cfg.Keys.IngestTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Keys.IngestTopic,
		uowFactory,
		ingestProcessor,
		natsPub,
	)

	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	chatbotService := service.NewChatbotService(
		uowFactory,
		ingestProcessor,
		publisherService,
		natsPub,
		lookupCache,
	)
	chatService := service.NewChatService(
		uowFactory,
		registry,
		indexAccess,
		composer,
		lookupCache,
		natsPub,
		sysLogger,
	)

	// 8. Controllers
	return &Container{
		AuthController:    controller.NewAuthController(authService),
		ChatbotController: controller.NewChatbotController(chatbotService, chatService, cfg.Upload.Dir),

		ConsumerService: consumerService,
		Logger:          sysLogger,
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"persona-chat-be/internal/config"
	"persona-chat-be/internal/pkg/logger"
	"persona-chat-be/pkg/events"
	"persona-chat-be/pkg/nats"
)

// Event audit tap: consumes every platform event from the bus and writes it
// to the structured log. Runs as a separate process so the API server keeps
// no consumer state.
func main() {
	cfg := config.Load()
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	defer sysLogger.Sync()

	sub, err := nats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Unable to connect to NATS: %v", err)
	}
	defer sub.Close()

	err = sub.Subscribe("events.>", "platform-event-audit", func(ctx context.Context, event events.Event) error {
		sysLogger.Info("events", event.EventType(), event.Payload())
		return nil
	})
	if err != nil {
		log.Fatalf("Unable to subscribe to event stream: %v", err)
	}

	log.Println("Event audit consumer running. Press Ctrl+C to stop.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

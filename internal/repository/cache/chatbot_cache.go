package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"persona-chat-be/internal/entity"

	"github.com/redis/go-redis/v9"
)

const lookupTTL = 5 * time.Minute

// ChatbotLookupCache caches chatbot metadata resolution by (owner, name).
// The chat path resolves the same chatbot on every exchange, so a short
// TTL saves one scoped query per turn. All failures degrade to a miss.
type ChatbotLookupCache struct {
	rdb *redis.Client
}

func NewChatbotLookupCache(rdb *redis.Client) *ChatbotLookupCache {
	return &ChatbotLookupCache{rdb: rdb}
}

func lookupKey(username, name string) string {
	return fmt.Sprintf("chatbot:%s:%s", username, name)
}

func (c *ChatbotLookupCache) Get(ctx context.Context, username, name string) (*entity.Chatbot, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}

	data, err := c.rdb.Get(ctx, lookupKey(username, name)).Bytes()
	if err != nil {
		return nil, false
	}

	var chatbot entity.Chatbot
	if err := json.Unmarshal(data, &chatbot); err != nil {
		return nil, false
	}
	return &chatbot, true
}

func (c *ChatbotLookupCache) Set(ctx context.Context, username string, chatbot *entity.Chatbot) {
	if c == nil || c.rdb == nil || chatbot == nil {
		return
	}

	data, err := json.Marshal(chatbot)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, lookupKey(username, chatbot.Name), data, lookupTTL)
}

func (c *ChatbotLookupCache) Invalidate(ctx context.Context, username, name string) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, lookupKey(username, name))
}

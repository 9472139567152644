package events

import "time"

// Event defines the contract for all platform events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "USER_REGISTERED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used by the constructors below.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes published on the bus.
const (
	TypeUserRegistered        = "USER_REGISTERED"
	TypeChatbotCreated        = "CHATBOT_CREATED"
	TypeChatExchangeCompleted = "CHAT_EXCHANGE_COMPLETED"
	TypeDocumentIndexed       = "DOCUMENT_INDEXED"
)

func NewUserRegisteredEvent(userID, username, email string) Event {
	return BaseEvent{
		Type: TypeUserRegistered,
		Data: map[string]interface{}{
			"user_id":  userID,
			"username": username,
			"email":    email,
		},
		OccurredAt: time.Now(),
	}
}

func NewChatbotCreatedEvent(chatbotID, userID, name string) Event {
	return BaseEvent{
		Type: TypeChatbotCreated,
		Data: map[string]interface{}{
			"chatbot_id": chatbotID,
			"user_id":    userID,
			"name":       name,
		},
		OccurredAt: time.Now(),
	}
}

func NewChatExchangeCompletedEvent(chatbotID, username string, historyLen int) Event {
	return BaseEvent{
		Type: TypeChatExchangeCompleted,
		Data: map[string]interface{}{
			"chatbot_id":  chatbotID,
			"username":    username,
			"history_len": historyLen,
		},
		OccurredAt: time.Now(),
	}
}

func NewDocumentIndexedEvent(chatbotID, filename string, chunkCount int) Event {
	return BaseEvent{
		Type: TypeDocumentIndexed,
		Data: map[string]interface{}{
			"chatbot_id":  chatbotID,
			"filename":    filename,
			"chunk_count": chunkCount,
		},
		OccurredAt: time.Now(),
	}
}

package mapper

import (
	"encoding/json"

	"persona-chat-be/internal/entity"
	"persona-chat-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ChatbotMapper struct{}

func NewChatbotMapper() *ChatbotMapper {
	return &ChatbotMapper{}
}

func (m *ChatbotMapper) ToEntity(c *model.Chatbot) *entity.Chatbot {
	if c == nil {
		return nil
	}
	return &entity.Chatbot{
		Id:            c.Id,
		UserId:        c.UserId,
		Name:          c.Name,
		Description:   c.Description,
		PersonaPrompt: c.PersonaPrompt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (m *ChatbotMapper) ToModel(c *entity.Chatbot) *model.Chatbot {
	if c == nil {
		return nil
	}
	return &model.Chatbot{
		Id:            c.Id,
		UserId:        c.UserId,
		Name:          c.Name,
		Description:   c.Description,
		PersonaPrompt: c.PersonaPrompt,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func (m *ChatbotMapper) ToEntities(chatbots []*model.Chatbot) []*entity.Chatbot {
	entities := make([]*entity.Chatbot, len(chatbots))
	for i, c := range chatbots {
		entities[i] = m.ToEntity(c)
	}
	return entities
}

// Chunk mapping

type ChatbotChunkMapper struct{}

func NewChatbotChunkMapper() *ChatbotChunkMapper {
	return &ChatbotChunkMapper{}
}

func (m *ChatbotChunkMapper) ToEntity(c *model.ChatbotChunk) *entity.ChatbotChunk {
	if c == nil {
		return nil
	}
	return &entity.ChatbotChunk{
		Id:         c.Id,
		ChatbotId:  c.ChatbotId,
		Content:    c.Content,
		Embedding:  c.Embedding.Slice(),
		ChunkIndex: c.ChunkIndex,
		CreatedAt:  c.CreatedAt,
	}
}

func (m *ChatbotChunkMapper) ToModel(c *entity.ChatbotChunk) *model.ChatbotChunk {
	if c == nil {
		return nil
	}
	return &model.ChatbotChunk{
		Id:         c.Id,
		ChatbotId:  c.ChatbotId,
		Content:    c.Content,
		Embedding:  pgvector.NewVector(c.Embedding),
		ChunkIndex: c.ChunkIndex,
		CreatedAt:  c.CreatedAt,
	}
}

// Document mapping

type ChatbotDocumentMapper struct{}

func NewChatbotDocumentMapper() *ChatbotDocumentMapper {
	return &ChatbotDocumentMapper{}
}

func (m *ChatbotDocumentMapper) ToEntity(d *model.ChatbotDocument) *entity.ChatbotDocument {
	if d == nil {
		return nil
	}
	meta := map[string]interface{}{}
	if len(d.Metadata) > 0 {
		// Corrupt metadata is not worth failing a read for
		_ = json.Unmarshal(d.Metadata, &meta)
	}
	return &entity.ChatbotDocument{
		Id:        d.Id,
		ChatbotId: d.ChatbotId,
		Filename:  d.Filename,
		Metadata:  meta,
		CreatedAt: d.CreatedAt,
	}
}

func (m *ChatbotDocumentMapper) ToModel(d *entity.ChatbotDocument) (*model.ChatbotDocument, error) {
	if d == nil {
		return nil, nil
	}
	var meta datatypes.JSON
	if d.Metadata != nil {
		raw, err := json.Marshal(d.Metadata)
		if err != nil {
			return nil, err
		}
		meta = raw
	}
	return &model.ChatbotDocument{
		Id:        d.Id,
		ChatbotId: d.ChatbotId,
		Filename:  d.Filename,
		Metadata:  meta,
		CreatedAt: d.CreatedAt,
	}, nil
}

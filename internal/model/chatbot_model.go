package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Chatbot struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId        uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_chatbots_owner_name"`
	Name          string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_chatbots_owner_name"`
	Description   string    `gorm:"type:varchar(500)"`
	PersonaPrompt string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"index"`
}

func (Chatbot) TableName() string {
	return "chatbots"
}

type ChatbotDocument struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatbotId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Filename  string         `gorm:"type:varchar(255);not null"`
	Metadata  datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (ChatbotDocument) TableName() string {
	return "chatbot_documents"
}

package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByName filters chatbots by name. Names collide across owners, so this
// is only meaningful combined with an owner scope.
type ByName struct {
	Name string
}

func (s ByName) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("name = ?", s.Name)
}

// OwnedBy scopes chatbots to one owning user id.
type OwnedBy struct {
	UserID uuid.UUID
}

func (s OwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

// OwnedByUsername scopes chatbots to the user with the given username.
// The ownership check is structural: the query itself is scoped, there is
// no separate authorization step.
type OwnedByUsername struct {
	Username string
}

func (s OwnedByUsername) Apply(db *gorm.DB) *gorm.DB {
	subQuery := db.Session(&gorm.Session{NewDB: true}).Table("users").Select("id").Where("username = ?", s.Username)
	return db.Where("user_id IN (?)", subQuery)
}

// ForChatbot scopes chunks or documents to one chatbot.
type ForChatbot struct {
	ChatbotID uuid.UUID
}

func (s ForChatbot) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chatbot_id = ?", s.ChatbotID)
}

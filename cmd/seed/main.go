package main

import (
	"log"
	"os"
	"time"

	"persona-chat-be/internal/model"
	"persona-chat-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a demo account for local development.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	var count int64
	db.Model(&model.User{}).Where("username = ?", "demo").Count(&count)
	if count > 0 {
		log.Println("Demo user already exists, nothing to do.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error: Failed to hash password: %v", err)
	}

	now := time.Now()
	user := &model.User{
		Id:           uuid.New(),
		Username:     "demo",
		Email:        "demo@example.com",
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := db.Create(user).Error; err != nil {
		log.Fatalf("Error: Failed to seed demo user: %v", err)
	}

	log.Println("✅ Seeded demo user (demo / demo1234)")
}

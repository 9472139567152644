package service

import "errors"

// Typed errors let controllers map failures to stable HTTP responses
// instead of string matching.
var (
	ErrChatbotNotFound  = errors.New("chatbot not found")
	ErrChatbotExists    = errors.New("a chatbot with this name already exists")
	ErrUserExists       = errors.New("username or email already registered")
	ErrInvalidLogin     = errors.New("invalid credentials")
	ErrUnsupportedFile  = errors.New("unsupported document format")
	ErrDocumentTooLarge = errors.New("document exceeds the size limit")
)

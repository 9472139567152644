package factory

import (
	"fmt"

	"persona-chat-be/pkg/llm"
	"persona-chat-be/pkg/llm/huggingface"
	"persona-chat-be/pkg/llm/ollama"
)

func NewProvider(providerType, modelName, ollamaBaseURL, huggingFaceKey string) (llm.Provider, error) {
	switch providerType {
	case "ollama":
		return ollama.NewProvider(ollamaBaseURL, modelName), nil
	case "huggingface":
		return huggingface.NewProvider(huggingFaceKey, "", modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

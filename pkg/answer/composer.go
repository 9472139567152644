package answer

import (
	"context"
	"fmt"
	"strings"

	"persona-chat-be/pkg/llm"
	"persona-chat-be/pkg/memory"
	"persona-chat-be/pkg/rag"
)

// responseMarker labels the spot where the model is expected to place its
// final answer. Models do not always echo it back, so stripping it is
// best effort.
const responseMarker = "persona-consistent response:"

// Composer assembles the grounded prompt for one chat exchange and
// post-processes the model output.
type Composer struct {
	provider llm.Provider
}

func NewComposer(provider llm.Provider) *Composer {
	return &Composer{provider: provider}
}

// Compose builds the full prompt from the chatbot identity, its persona,
// the retrieved context, and the conversation so far, then asks the model
// for an answer.
func (c *Composer) Compose(ctx context.Context, botName, botDescription, persona string, chunks []rag.ContextChunk, history []memory.Turn, question string) (string, error) {
	prompt := c.buildPrompt(botName, botDescription, persona, chunks, history, question)

	raw, err := c.provider.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	return extractAnswer(raw), nil
}

func (c *Composer) buildPrompt(botName, botDescription, persona string, chunks []rag.ContextChunk, history []memory.Turn, question string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are %s, %s.\n\n", botName, botDescription))
	sb.WriteString("Persona:\n")
	sb.WriteString(persona)
	sb.WriteString("\n\n")

	sb.WriteString("Context from the knowledge base:\n")
	for _, chunk := range chunks {
		sb.WriteString(chunk.Content)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString("Conversation history:\n")
	for _, turn := range history {
		switch turn.Role {
		case memory.RoleUser:
			sb.WriteString("User: ")
		case memory.RoleAssistant:
			sb.WriteString("Assistant: ")
		default:
			sb.WriteString(turn.Role)
			sb.WriteString(": ")
		}
		sb.WriteString(turn.Content)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString("Question: ")
	sb.WriteString(question)
	sb.WriteString("\n\n")

	sb.WriteString("Stay fully in character and answer using the context and the conversation history. ")
	sb.WriteString("If the context does not cover the question, say so in character rather than inventing facts.\n")
	sb.WriteString(responseMarker)

	return sb.String()
}

// extractAnswer returns the text after the last occurrence of the response
// marker. Output without the marker passes through untouched.
func extractAnswer(raw string) string {
	lower := strings.ToLower(raw)
	idx := strings.LastIndex(lower, responseMarker)
	if idx < 0 {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(raw[idx+len(responseMarker):])
}

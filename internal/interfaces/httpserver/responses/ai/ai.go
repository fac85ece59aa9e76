package ai

import (
	openai "github.com/sashabaranov/go-openai"

	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/domain/generation"
)

// GenerateResponse is the synchronous generation result.
type GenerateResponse struct {
	Message *chat.Message            `json:"message"`
	Usage   openai.Usage             `json:"usage"`
	Model   string                   `json:"model"`
	Context generation.ContextReport `json:"context"`
}

// RegenerateResponse carries the full updated chat alongside the new turn.
type RegenerateResponse struct {
	Chat        *chat.Chat               `json:"chat"`
	Message     *chat.Message            `json:"message"`
	Usage       openai.Usage             `json:"usage"`
	Model       string                   `json:"model"`
	Regenerated bool                     `json:"regenerated"`
	Context     generation.ContextReport `json:"context"`
}

// ModelsResponse lists the backend's advertised models.
type ModelsResponse struct {
	Models []generation.ModelInfo `json:"models"`
}

// TestResponse reports backend connectivity.
type TestResponse struct {
	Status     string `json:"status"`
	Configured bool   `json:"configured"`
	Models     int    `json:"models,omitempty"`
}

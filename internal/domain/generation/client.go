package generation

import (
	"context"

	openai "github.com/sashabaranov/go-openai"
)

// StreamDelta is a single incremental content fragment produced by the
// completion backend during streaming.
type StreamDelta struct {
	Content string
	Model   string
}

// CompletionClient abstracts the OpenAI-compatible completion backend.
type CompletionClient interface {
	// IsConfigured reports whether the backend has credentials. Callers must
	// check before issuing requests; an unconfigured backend is a 503, not
	// an upstream failure.
	IsConfigured() bool
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (*openai.ChatCompletionResponse, error)
	// StreamChatCompletion invokes onDelta once per content fragment, in
	// upstream order, on the calling goroutine. A non-nil error from onDelta
	// aborts the stream.
	StreamChatCompletion(ctx context.Context, req openai.ChatCompletionRequest, onDelta func(StreamDelta) error) error
}

// StreamEmitter receives generation progress for delivery to the client.
type StreamEmitter interface {
	Chunk(content, model string) error
	Complete(messageID, fullContent string, report ContextReport) error
}

// ModelInfo describes one model advertised by the completion backend.
type ModelInfo struct {
	ID      string `json:"id"`
	OwnedBy string `json:"owned_by,omitempty"`
	Created int64  `json:"created,omitempty"`
}

// BackendDirectory exposes the backend's model catalog and a connectivity
// probe for diagnostic endpoints.
type BackendDirectory interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
	Ping(ctx context.Context) error
}

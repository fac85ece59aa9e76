package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titleResponse(content string) *openai.ChatCompletionResponse {
	return &openai.ChatCompletionResponse{
		Model: "gpt-3.5-turbo",
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	}
}

func TestTitleGeneratorUsesAIBackend(t *testing.T) {
	client := &stubClient{configured: true, response: titleResponse(`"Japan Trip Planning."`)}
	gen := NewTitleGenerator(client, testConfig())

	title := gen.Generate(context.Background(), "Hello, can you help me plan a trip to Japan")

	assert.Equal(t, "Japan Trip Planning", title)
	assert.Equal(t, "gpt-3.5-turbo", client.lastRequest.Model)
	assert.Equal(t, titleMaxTokens, client.lastRequest.MaxTokens)
	assert.Equal(t, float32(titleTemperature), client.lastRequest.Temperature)
	require.Len(t, client.lastRequest.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, client.lastRequest.Messages[0].Role)
	assert.Contains(t, client.lastRequest.Messages[1].Content, "plan a trip to Japan")
}

func TestTitleGeneratorTruncatesLongAITitle(t *testing.T) {
	long := strings.Repeat("Very Long Title ", 10)
	client := &stubClient{configured: true, response: titleResponse(long)}
	gen := NewTitleGenerator(client, testConfig())

	title := gen.Generate(context.Background(), "anything")

	assert.LessOrEqual(t, len(title), titleMaxLength)
	assert.True(t, strings.HasSuffix(title, "..."))
}

func TestTitleGeneratorFallsBackOnError(t *testing.T) {
	client := &stubClient{configured: true, err: errors.New("upstream down")}
	gen := NewTitleGenerator(client, testConfig())

	title := gen.Generate(context.Background(), "Hello, can you help me plan a trip to Japan")

	assert.Equal(t, "Trip to Japan", title)
}

func TestTitleGeneratorFallsBackOnEmptyResponse(t *testing.T) {
	client := &stubClient{configured: true, response: titleResponse(`""`)}
	gen := NewTitleGenerator(client, testConfig())

	title := gen.Generate(context.Background(), "explain recursion to me")

	assert.Equal(t, "Recursion to me", title)
}

func TestTitleGeneratorUnconfiguredBackendFallsBack(t *testing.T) {
	client := &stubClient{configured: false}
	gen := NewTitleGenerator(client, testConfig())

	title := gen.Generate(context.Background(), "what is the capital of France")

	assert.Equal(t, "Capital of France", title)
	assert.Zero(t, client.calls)
}

func TestFallbackTitle(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{"strips stacked openers", "Hello, can you help me plan a trip to Japan", "Trip to Japan"},
		{"strips question opener", "what is the capital of France", "Capital of France"},
		{"strips politeness", "please explain quantum computing", "Quantum computing"},
		{"plain message capitalized", "weather forecast for tomorrow", "Weather forecast for tomorrow"},
		{"keeps first six words", "favorite recipes from northern Italy with seasonal vegetables", "Favorite recipes from northern Italy with"},
		{"opener-only message keeps original", "hello", "Hello"},
		{"empty input", "", "New Chat"},
		{"whitespace input", "   ", "New Chat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FallbackTitle(tt.message))
		})
	}
}

func TestFallbackTitleTruncatesLongResult(t *testing.T) {
	message := "Mediterranean architectural restoration methodologies throughout historical coastal settlements"

	title := FallbackTitle(message)

	assert.LessOrEqual(t, len(title), titleMaxLength)
	assert.True(t, strings.HasSuffix(title, "..."))
}

package aihandler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/harshrajput1506/chatgpt-clone/internal/domain/generation"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/logger"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/observability"
	middleware "github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/middlewares"
	airequests "github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/requests/ai"
	airesponses "github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/responses/ai"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/platformerrors"
)

// AIHandler handles generation HTTP requests
type AIHandler struct {
	generator *generation.Service
	directory generation.BackendDirectory
	client    generation.CompletionClient
}

// NewAIHandler creates a new AI handler
func NewAIHandler(generator *generation.Service, directory generation.BackendDirectory, client generation.CompletionClient) *AIHandler {
	return &AIHandler{
		generator: generator,
		directory: directory,
		client:    client,
	}
}

func toOptions(req airequests.GenerateRequest) generation.GenerateOptions {
	opts := generation.GenerateOptions{
		Model:                req.Model,
		Temperature:          req.Temperature,
		IncludeSystemMessage: req.IncludeSystemMessage,
	}
	if req.MaxTokens != nil {
		opts.MaxTokens = *req.MaxTokens
	}
	return opts
}

// Generate produces one assistant turn synchronously
func (h *AIHandler) Generate(ctx context.Context, chatPublicID string, req airequests.GenerateRequest) (*airesponses.GenerateResponse, error) {
	ctx, span := observability.StartSpan(ctx, "chat-api", "AIHandler.Generate")
	defer span.End()

	observability.AddSpanAttributes(ctx,
		attribute.String("chat.id", chatPublicID),
		attribute.String("generation.model", req.Model),
		attribute.Bool("generation.stream", false),
	)

	result, err := h.generator.Generate(ctx, chatPublicID, toOptions(req))
	if err != nil {
		observability.RecordError(ctx, err)
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "generation failed")
	}

	observability.AddSpanAttributes(ctx, attribute.String("generation.model_used", result.Model))
	observability.SetSpanStatus(ctx, codes.Ok, "generation successful")

	return &airesponses.GenerateResponse{
		Message: result.Message,
		Usage:   result.Usage,
		Model:   result.Model,
		Context: result.Context,
	}, nil
}

// Regenerate replaces an assistant turn and everything after it
func (h *AIHandler) Regenerate(ctx context.Context, chatPublicID, messagePublicID string, req airequests.GenerateRequest) (*airesponses.RegenerateResponse, error) {
	ctx, span := observability.StartSpan(ctx, "chat-api", "AIHandler.Regenerate")
	defer span.End()

	observability.AddSpanAttributes(ctx,
		attribute.String("chat.id", chatPublicID),
		attribute.String("message.id", messagePublicID),
		attribute.String("generation.model", req.Model),
	)

	result, err := h.generator.Regenerate(ctx, chatPublicID, messagePublicID, toOptions(req))
	if err != nil {
		observability.RecordError(ctx, err)
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "regeneration failed")
	}

	observability.SetSpanStatus(ctx, codes.Ok, "regeneration successful")

	return &airesponses.RegenerateResponse{
		Chat:        result.Chat,
		Message:     result.Message,
		Usage:       result.Usage,
		Model:       result.Model,
		Regenerated: true,
		Context:     result.Context,
	}, nil
}

// Stream produces one assistant turn over SSE
func (h *AIHandler) Stream(reqCtx *gin.Context, chatPublicID string, req airequests.GenerateRequest) {
	ctx, span := observability.StartSpan(reqCtx.Request.Context(), "chat-api", "AIHandler.Stream")
	defer span.End()

	observability.AddSpanAttributes(ctx,
		attribute.String("chat.id", chatPublicID),
		attribute.String("generation.model", req.Model),
		attribute.Bool("generation.stream", true),
	)

	emitter, ok := h.openStream(reqCtx)
	if !ok {
		return
	}

	if err := h.generator.GenerateStream(ctx, chatPublicID, toOptions(req), emitter); err != nil {
		observability.RecordError(ctx, err)
		emitter.EmitError(err)
	}
}

// RegenerateStream applies regeneration semantics with chunked emission
func (h *AIHandler) RegenerateStream(reqCtx *gin.Context, chatPublicID, messagePublicID string, req airequests.GenerateRequest) {
	ctx, span := observability.StartSpan(reqCtx.Request.Context(), "chat-api", "AIHandler.RegenerateStream")
	defer span.End()

	observability.AddSpanAttributes(ctx,
		attribute.String("chat.id", chatPublicID),
		attribute.String("message.id", messagePublicID),
		attribute.Bool("generation.stream", true),
	)

	emitter, ok := h.openStream(reqCtx)
	if !ok {
		return
	}

	if err := h.generator.RegenerateStream(ctx, chatPublicID, messagePublicID, toOptions(req), emitter); err != nil {
		observability.RecordError(ctx, err)
		emitter.EmitError(err)
	}
}

func (h *AIHandler) openStream(reqCtx *gin.Context) (*sseEmitter, bool) {
	flusher, ok := middleware.PrepareSSE(reqCtx)
	if !ok {
		reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return nil, false
	}
	return &sseEmitter{reqCtx: reqCtx, flusher: flusher}, true
}

// ListModels returns the backend's model catalog
func (h *AIHandler) ListModels(ctx context.Context) (*airesponses.ModelsResponse, error) {
	if !h.client.IsConfigured() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerHandler, platformerrors.ErrorTypeUnavailable, "AI backend is not configured", nil, "")
	}

	models, err := h.directory.ListModels(ctx)
	if err != nil {
		return nil, platformerrors.AsError(ctx, platformerrors.LayerHandler, err, "failed to list models")
	}
	return &airesponses.ModelsResponse{Models: models}, nil
}

// Test probes backend connectivity
func (h *AIHandler) Test(ctx context.Context) *airesponses.TestResponse {
	if !h.client.IsConfigured() {
		return &airesponses.TestResponse{Status: "not_configured", Configured: false}
	}

	models, err := h.directory.ListModels(ctx)
	if err != nil {
		log := logger.GetLogger()
		log.Warn().Err(err).Msg("backend connectivity test failed")
		return &airesponses.TestResponse{Status: "error", Configured: true}
	}
	return &airesponses.TestResponse{Status: "ok", Configured: true, Models: len(models)}
}

// sseEmitter writes generation progress as server-sent events.
type sseEmitter struct {
	reqCtx  *gin.Context
	flusher http.Flusher
}

var _ generation.StreamEmitter = (*sseEmitter)(nil)

func (e *sseEmitter) Chunk(content, model string) error {
	return e.write(gin.H{"content": content, "type": "chunk", "model": model})
}

func (e *sseEmitter) Complete(messageID, fullContent string, report generation.ContextReport) error {
	return e.write(gin.H{
		"type":        "complete",
		"messageId":   messageID,
		"fullContent": fullContent,
		"context":     report,
	})
}

// EmitError sends a terminal error event. The SSE headers are already on the
// wire, so errors surface in-band rather than as an HTTP status.
func (e *sseEmitter) EmitError(err error) {
	payload := gin.H{"type": "error", "error": "generation failed"}
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		payload["error"] = platformErr.Message
		payload["code"] = string(platformErr.GetErrorType())
	}
	if writeErr := e.write(payload); writeErr != nil {
		log := logger.GetLogger()
		log.Warn().Err(writeErr).Msg("failed to emit SSE error event")
	}
}

func (e *sseEmitter) write(payload gin.H) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(e.reqCtx.Writer, "data: %s\n\n", data); err != nil {
		return err
	}
	e.flusher.Flush()
	return nil
}

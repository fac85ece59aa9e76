package ai

import (
	"context"

	"github.com/harshrajput1506/chatgpt-clone/internal/utils/platformerrors"
)

// Completion parameter bounds enforced before the orchestrator runs.
const (
	MaxTokensFloor   = 1
	MaxTokensCeiling = 4000
	TemperatureFloor = 0.0
	TemperatureCeil  = 2.0
)

// GenerateRequest carries caller-tunable completion parameters. All fields
// are optional; absent values fall back to configured defaults.
type GenerateRequest struct {
	Model                string   `json:"model"`
	MaxTokens            *int     `json:"max_tokens"`
	Temperature          *float32 `json:"temperature"`
	IncludeSystemMessage bool     `json:"include_system_message"`
}

// Validate enforces the parameter bounds. Bounds are checked here rather
// than with binding tags so a violation reports which parameter failed.
func (r *GenerateRequest) Validate(ctx context.Context) error {
	if r.MaxTokens != nil && (*r.MaxTokens < MaxTokensFloor || *r.MaxTokens > MaxTokensCeiling) {
		return platformerrors.NewError(ctx, platformerrors.LayerRoute, platformerrors.ErrorTypeValidation,
			"max_tokens must be between 1 and 4000", nil, "")
	}
	if r.Temperature != nil && (*r.Temperature < TemperatureFloor || *r.Temperature > TemperatureCeil) {
		return platformerrors.NewError(ctx, platformerrors.LayerRoute, platformerrors.ErrorTypeValidation,
			"temperature must be between 0 and 2", nil, "")
	}
	return nil
}

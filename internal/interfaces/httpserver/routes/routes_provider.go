package routes

import (
	"github.com/google/wire"

	"github.com/harshrajput1506/chatgpt-clone/internal/config"
	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/handlers/aihandler"
	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/handlers/chathandler"
	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/handlers/imagehandler"
	middleware "github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/middlewares"
	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/routes/v1"
	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/routes/v1/ai"
	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/routes/v1/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/routes/v1/image"
)

// ProvideRateLimiter builds the fixed-window limiter for AI endpoints.
func ProvideRateLimiter(cfg *config.Config) *middleware.FixedWindowLimiter {
	return middleware.NewFixedWindowLimiter(cfg.AIRateLimitWindow, cfg.AIRateLimitMax)
}

var RouteProvider = wire.NewSet(
	// Handlers
	chathandler.NewChatHandler,
	imagehandler.NewImageHandler,
	aihandler.NewAIHandler,

	// Rate limiting
	ProvideRateLimiter,

	// Routes
	v1.NewV1Route,
	chat.NewChatRoute,
	image.NewImageRoute,
	ai.NewAIRoute,
)

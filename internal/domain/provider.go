package domain

import (
	"github.com/google/wire"

	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/domain/generation"
)

// ServiceProvider provides all domain services
var ServiceProvider = wire.NewSet(
	// Chat domain
	chat.NewChatService,
	chat.NewImageService,

	// Generation domain
	generation.NewService,
	generation.NewTitleGenerator,
)

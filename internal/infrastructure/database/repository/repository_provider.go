package repository

import (
	"github.com/harshrajput1506/chatgpt-clone/internal/domain/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/database/repository/chatrepo"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/database/repository/imagerepo"
	"github.com/harshrajput1506/chatgpt-clone/internal/infrastructure/database/repository/messagerepo"

	"github.com/google/wire"
)

var RepositoryProvider = wire.NewSet(
	chatrepo.NewChatRepository,
	wire.Bind(new(chat.ChatRepository), new(*chatrepo.ChatRepository)),
	messagerepo.NewMessageRepository,
	wire.Bind(new(chat.MessageRepository), new(*messagerepo.MessageRepository)),
	imagerepo.NewImageRepository,
	wire.Bind(new(chat.ImageRepository), new(*imagerepo.ImageRepository)),
)

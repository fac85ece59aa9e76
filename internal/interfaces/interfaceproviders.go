package interfaces

import (
	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver"

	"github.com/google/wire"
)

var InterfacesProvider = wire.NewSet(
	httpserver.NewHttpServer,
)

package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/routes/v1/ai"
	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/routes/v1/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/routes/v1/image"
)

type V1Route struct {
	chat  *chat.ChatRoute
	image *image.ImageRoute
	ai    *ai.AIRoute
}

func NewV1Route(
	chat *chat.ChatRoute,
	image *image.ImageRoute,
	ai *ai.AIRoute,
) *V1Route {
	return &V1Route{
		chat,
		image,
		ai,
	}
}

func (route *V1Route) RegisterRouter(router gin.IRouter) {
	v1 := router.Group("/v1")
	route.chat.RegisterRouter(v1)
	route.image.RegisterRouter(v1)
	route.ai.RegisterRouter(v1)
}

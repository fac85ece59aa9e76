package ai

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/handlers/aihandler"
	middleware "github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/middlewares"
	airequests "github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/requests/ai"
	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/responses"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/platformerrors"
)

type AIRoute struct {
	handler *aihandler.AIHandler
	limiter *middleware.FixedWindowLimiter
}

func NewAIRoute(handler *aihandler.AIHandler, limiter *middleware.FixedWindowLimiter) *AIRoute {
	return &AIRoute{
		handler: handler,
		limiter: limiter,
	}
}

func (route *AIRoute) RegisterRouter(router gin.IRouter) {
	ai := router.Group("/ai")
	ai.Use(middleware.RateLimitMiddleware(route.limiter))
	ai.POST("/chats/:chat_id/generate", route.generate)
	ai.POST("/chats/:chat_id/stream", route.stream)
	ai.POST("/chats/:chat_id/messages/:message_id/regenerate", route.regenerate)
	ai.POST("/chats/:chat_id/messages/:message_id/regenerate/stream", route.regenerateStream)
	ai.GET("/models", route.listModels)
	ai.GET("/test", route.test)
}

// bindGenerateRequest parses the optional request body and enforces parameter
// bounds. An absent body is valid and yields defaults.
func bindGenerateRequest(reqCtx *gin.Context) (airequests.GenerateRequest, bool) {
	var req airequests.GenerateRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body")
		return req, false
	}
	if err := req.Validate(reqCtx.Request.Context()); err != nil {
		responses.HandleError(reqCtx, err, "invalid generation parameters")
		return req, false
	}
	return req, true
}

func (route *AIRoute) generate(reqCtx *gin.Context) {
	req, ok := bindGenerateRequest(reqCtx)
	if !ok {
		return
	}

	resp, err := route.handler.Generate(reqCtx.Request.Context(), reqCtx.Param("chat_id"), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to generate response")
		return
	}
	reqCtx.JSON(http.StatusOK, resp)
}

func (route *AIRoute) stream(reqCtx *gin.Context) {
	req, ok := bindGenerateRequest(reqCtx)
	if !ok {
		return
	}

	route.handler.Stream(reqCtx, reqCtx.Param("chat_id"), req)
}

func (route *AIRoute) regenerate(reqCtx *gin.Context) {
	req, ok := bindGenerateRequest(reqCtx)
	if !ok {
		return
	}

	resp, err := route.handler.Regenerate(reqCtx.Request.Context(), reqCtx.Param("chat_id"), reqCtx.Param("message_id"), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to regenerate response")
		return
	}
	reqCtx.JSON(http.StatusOK, resp)
}

func (route *AIRoute) regenerateStream(reqCtx *gin.Context) {
	req, ok := bindGenerateRequest(reqCtx)
	if !ok {
		return
	}

	route.handler.RegenerateStream(reqCtx, reqCtx.Param("chat_id"), reqCtx.Param("message_id"), req)
}

func (route *AIRoute) listModels(reqCtx *gin.Context) {
	resp, err := route.handler.ListModels(reqCtx.Request.Context())
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list models")
		return
	}
	reqCtx.JSON(http.StatusOK, resp)
}

func (route *AIRoute) test(reqCtx *gin.Context) {
	reqCtx.JSON(http.StatusOK, route.handler.Test(reqCtx.Request.Context()))
}

package chat

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/handlers/chathandler"
	chatrequests "github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/requests/chat"
	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/responses"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/platformerrors"
)

type ChatRoute struct {
	handler *chathandler.ChatHandler
}

func NewChatRoute(handler *chathandler.ChatHandler) *ChatRoute {
	return &ChatRoute{handler: handler}
}

func (route *ChatRoute) RegisterRouter(router gin.IRouter) {
	chats := router.Group("/chats")
	chats.GET("", route.listChats)
	chats.POST("", route.createChat)
	chats.GET("/:chat_id", route.getChat)
	chats.PUT("/:chat_id", route.updateChat)
	chats.DELETE("/:chat_id", route.deleteChat)
	chats.POST("/:chat_id/generate-title", route.generateTitle)
	chats.GET("/:chat_id/messages", route.listMessages)
	chats.POST("/:chat_id/messages", route.createMessage)

	messages := router.Group("/messages")
	messages.DELETE("/:message_id", route.deleteMessage)
}

func (route *ChatRoute) listChats(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	userID := reqCtx.Query("uid")
	if userID == "" {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "uid query parameter is required")
		return
	}

	resp, err := route.handler.ListChats(ctx, userID)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list chats")
		return
	}
	reqCtx.JSON(http.StatusOK, resp)
}

func (route *ChatRoute) createChat(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var req chatrequests.CreateChatRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body")
		return
	}

	created, err := route.handler.CreateChat(ctx, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to create chat")
		return
	}
	reqCtx.JSON(http.StatusCreated, created)
}

func (route *ChatRoute) getChat(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	found, err := route.handler.GetChat(ctx, reqCtx.Param("chat_id"), reqCtx.Query("uid"))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get chat")
		return
	}
	reqCtx.JSON(http.StatusOK, found)
}

func (route *ChatRoute) updateChat(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var req chatrequests.UpdateChatRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "title is required")
		return
	}

	updated, err := route.handler.UpdateChat(ctx, reqCtx.Param("chat_id"), reqCtx.Query("uid"), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to update chat")
		return
	}
	reqCtx.JSON(http.StatusOK, updated)
}

func (route *ChatRoute) deleteChat(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	if err := route.handler.DeleteChat(ctx, reqCtx.Param("chat_id"), reqCtx.Query("uid")); err != nil {
		responses.HandleError(reqCtx, err, "Failed to delete chat")
		return
	}
	reqCtx.Status(http.StatusNoContent)
}

func (route *ChatRoute) generateTitle(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	updated, err := route.handler.GenerateTitle(ctx, reqCtx.Param("chat_id"), reqCtx.Query("uid"))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to generate title")
		return
	}
	reqCtx.JSON(http.StatusOK, updated)
}

func (route *ChatRoute) listMessages(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var query chatrequests.ListMessagesQuery
	if err := reqCtx.ShouldBindQuery(&query); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid pagination parameters")
		return
	}

	resp, err := route.handler.ListMessages(ctx, reqCtx.Param("chat_id"), reqCtx.Query("uid"), query)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list messages")
		return
	}
	reqCtx.JSON(http.StatusOK, resp)
}

func (route *ChatRoute) createMessage(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var req chatrequests.CreateMessageRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "content and sender are required")
		return
	}

	message, err := route.handler.CreateMessage(ctx, reqCtx.Param("chat_id"), reqCtx.Query("uid"), req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to create message")
		return
	}
	reqCtx.JSON(http.StatusCreated, message)
}

func (route *ChatRoute) deleteMessage(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	if err := route.handler.DeleteMessage(ctx, reqCtx.Param("message_id")); err != nil {
		responses.HandleError(reqCtx, err, "Failed to delete message")
		return
	}
	reqCtx.Status(http.StatusNoContent)
}

package image

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/handlers/imagehandler"
	imagerequests "github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/requests/image"
	"github.com/harshrajput1506/chatgpt-clone/internal/interfaces/httpserver/responses"
	"github.com/harshrajput1506/chatgpt-clone/internal/utils/platformerrors"
)

type ImageRoute struct {
	handler *imagehandler.ImageHandler
}

func NewImageRoute(handler *imagehandler.ImageHandler) *ImageRoute {
	return &ImageRoute{handler: handler}
}

func (route *ImageRoute) RegisterRouter(router gin.IRouter) {
	images := router.Group("/images")
	images.GET("", route.listImages)
	images.POST("", route.createImage)
	images.GET("/:image_id", route.getImage)
	images.DELETE("/:image_id", route.deleteImage)
}

func (route *ImageRoute) createImage(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	var req imagerequests.CreateImageRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "storage_key, url and original_name are required")
		return
	}

	image, err := route.handler.CreateImage(ctx, req)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to register image")
		return
	}
	reqCtx.JSON(http.StatusCreated, image)
}

func (route *ImageRoute) listImages(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	page, _ := strconv.Atoi(reqCtx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(reqCtx.DefaultQuery("limit", "50"))

	resp, err := route.handler.ListImages(ctx, page, limit)
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to list images")
		return
	}
	reqCtx.JSON(http.StatusOK, resp)
}

func (route *ImageRoute) getImage(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	image, err := route.handler.GetImage(ctx, reqCtx.Param("image_id"))
	if err != nil {
		responses.HandleError(reqCtx, err, "Failed to get image")
		return
	}
	reqCtx.JSON(http.StatusOK, image)
}

func (route *ImageRoute) deleteImage(reqCtx *gin.Context) {
	ctx := reqCtx.Request.Context()

	if err := route.handler.DeleteImage(ctx, reqCtx.Param("image_id")); err != nil {
		responses.HandleError(reqCtx, err, "Failed to delete image")
		return
	}
	reqCtx.Status(http.StatusNoContent)
}

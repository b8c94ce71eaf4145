package handlers

import (
	"net/http"

	"musicstore_admin/internal/services"

	"github.com/gin-gonic/gin"
)

// ImageHandler exposes provider-side image maintenance.
type ImageHandler struct {
	*BaseHandler
	uploadService services.UploadService
}

func NewImageHandler(base *BaseHandler, uploadService services.UploadService) *ImageHandler {
	return &ImageHandler{
		BaseHandler:   base,
		uploadService: uploadService,
	}
}

func (h *ImageHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.DELETE("/images/:publicId", h.PurgeImage)
}

// PurgeImage deletes a hosted image by its public id.
func (h *ImageHandler) PurgeImage(c *gin.Context) {
	result, err := h.uploadService.PurgeImage(c.Request.Context(), c.Param("publicId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

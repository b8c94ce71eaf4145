package handlers

import (
	"net/http"

	"musicstore_admin/internal/dto"
	"musicstore_admin/internal/logger"
	"musicstore_admin/internal/services"
	"musicstore_admin/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// FormHandler exposes the product-form session operations to the admin UI.
type FormHandler struct {
	*BaseHandler
	formService   services.FormService
	uploadService services.UploadService
}

func NewFormHandler(base *BaseHandler, formService services.FormService, uploadService services.UploadService) *FormHandler {
	return &FormHandler{
		BaseHandler:   base,
		formService:   formService,
		uploadService: uploadService,
	}
}

func (h *FormHandler) RegisterRoutes(r *gin.RouterGroup) {
	form := r.Group("/form/sessions")
	{
		form.POST("", h.OpenForm)
		form.POST("/:sessionId/open", h.ReopenForm)
		form.GET("/:sessionId", h.GetForm)
		form.PATCH("/:sessionId/fields", h.ChangeField)
		form.POST("/:sessionId/images", h.UploadImages)
		form.DELETE("/:sessionId/images/:index", h.RemoveImage)
		form.POST("/:sessionId/submit", h.Submit)
		form.DELETE("/:sessionId", h.CloseForm)
	}
}

// OpenForm starts a new form session.
func (h *FormHandler) OpenForm(c *gin.Context) {
	var req dto.OpenFormRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	state, err := h.formService.Open(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, state)
}

// ReopenForm re-hydrates a live session from current source data.
func (h *FormHandler) ReopenForm(c *gin.Context) {
	var req dto.OpenFormRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	state, err := h.formService.Reopen(c.Request.Context(), c.Param("sessionId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetForm returns the current form snapshot.
func (h *FormHandler) GetForm(c *gin.Context) {
	state, err := h.formService.State(c.Param("sessionId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// ChangeField applies one field change event.
func (h *FormHandler) ChangeField(c *gin.Context) {
	var req dto.FieldChangeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	state, err := h.formService.ChangeField(c.Param("sessionId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// UploadImages accepts one multipart selection batch under the "files" field.
func (h *FormHandler) UploadImages(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(50 << 20); err != nil {
		apperrors.HandleError(c, apperrors.NewBadRequestError("failed to parse form: "+err.Error()))
		return
	}

	form := c.Request.MultipartForm
	files := form.File["files"]

	state, err := h.uploadService.UploadImages(c.Request.Context(), c.Param("sessionId"), files)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// RemoveImage drops the image at the given index.
func (h *FormHandler) RemoveImage(c *gin.Context) {
	index, err := ParseParamInt(c, "index")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	state, err := h.formService.RemoveImage(c.Param("sessionId"), index)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Submit sends the form to the catalog.
func (h *FormHandler) Submit(c *gin.Context) {
	result, err := h.formService.Submit(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CloseForm discards the session.
func (h *FormHandler) CloseForm(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if err := h.formService.Close(sessionID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	logger.CtxInfo(c.Request.Context(), "form session closed", "session_id", sessionID)
	c.JSON(http.StatusOK, gin.H{"closed": true})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/internal/service"
	"github.com/nabaa/newsroom/pkg/ginutil"
)

// MediaHandler handles image upload endpoints
type MediaHandler struct {
	service service.MediaService
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(service service.MediaService) *MediaHandler {
	return &MediaHandler{service: service}
}

// Upload handles POST /api/admin/media
// @Summary      رفع صورة
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file     formData  file    true   "الصورة (jpeg, png, gif, webp حتى 5 ميغابايت)"
// @Param        alt      formData  string  false  "النص البديل"
// @Param        caption  formData  string  false  "التعليق"
// @Success      201  {object}  common.Response{data=domain.Media}
// @Failure      400  {object}  common.Response
// @Failure      413  {object}  common.Response
// @Router       /admin/media [post]
func (h *MediaHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, service.MaxImageSize+1<<20)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		common.BadRequest(c, err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		common.BadRequest(c, err)
		return
	}
	defer file.Close()

	media, err := h.service.Upload(c.Request.Context(), middleware.GetActor(c), &service.UploadInput{
		Filename: fileHeader.Filename,
		Size:     fileHeader.Size,
		Body:     file,
		Alt:      formValue(c, "alt"),
		Caption:  formValue(c, "caption"),
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, media)
}

// List handles GET /api/admin/media
func (h *MediaHandler) List(c *gin.Context) {
	page, perPage := ginutil.Pagination(c)
	items, meta, err := h.service.List(c.Request.Context(), middleware.GetActor(c), page, perPage)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessWithMeta(c, items, meta)
}

// Delete handles DELETE /api/admin/media/:id
func (h *MediaHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Message(c, "media.deleted")
}

func formValue(c *gin.Context, key string) *string {
	if v := c.PostForm(key); v != "" {
		return &v
	}
	return nil
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/internal/service"
)

// CommentHandler handles editorial comment threads
type CommentHandler struct {
	service service.EditorialService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(service service.EditorialService) *CommentHandler {
	return &CommentHandler{service: service}
}

// List handles GET /api/admin/articles/:id/comments
// @Summary      الملاحظات التحريرية
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id        path   string  true   "معرّف المقال"
// @Param        block_id  query  string  false  "تصفية حسب الكتلة"
// @Success      200  {object}  common.Response{data=[]domain.EditorialComment}
// @Router       /admin/articles/{id}/comments [get]
func (h *CommentHandler) List(c *gin.Context) {
	var blockID *string
	if v, ok := c.GetQuery("block_id"); ok && v != "" {
		blockID = &v
	}

	comments, err := h.service.List(c.Request.Context(), middleware.GetActor(c), c.Param("id"), blockID)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, comments)
}

// Add handles POST /api/admin/articles/:id/comments
// @Summary      إضافة ملاحظة تحريرية
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                             true  "معرّف المقال"
// @Param        body  body      domain.AddEditorialCommentRequest  true  "الملاحظة"
// @Success      201   {object}  common.Response{data=domain.EditorialComment}
// @Failure      403   {object}  common.Response
// @Router       /admin/articles/{id}/comments [post]
func (h *CommentHandler) Add(c *gin.Context) {
	var req domain.AddEditorialCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	comment, err := h.service.Add(c.Request.Context(), middleware.GetActor(c), c.Param("id"), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, comment)
}

// Resolve handles POST /api/admin/comments/:commentId/resolve
// @Summary      حل الملاحظة
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        commentId  path      string  true  "معرّف الملاحظة"
// @Success      200        {object}  common.Response{data=domain.EditorialComment}
// @Router       /admin/comments/{commentId}/resolve [post]
func (h *CommentHandler) Resolve(c *gin.Context) {
	comment, err := h.service.Resolve(c.Request.Context(), middleware.GetActor(c), c.Param("commentId"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, comment)
}

// Unresolve handles POST /api/admin/comments/:commentId/unresolve
func (h *CommentHandler) Unresolve(c *gin.Context) {
	comment, err := h.service.Unresolve(c.Request.Context(), middleware.GetActor(c), c.Param("commentId"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, comment)
}

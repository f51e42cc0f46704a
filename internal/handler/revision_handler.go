package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/internal/service"
	"github.com/nabaa/newsroom/pkg/ginutil"
)

// RevisionHandler handles article revision requests
type RevisionHandler struct {
	service service.RevisionService
}

// NewRevisionHandler creates a new RevisionHandler
func NewRevisionHandler(service service.RevisionService) *RevisionHandler {
	return &RevisionHandler{service: service}
}

// List handles GET /api/admin/articles/:id/revisions
// @Summary      نسخ المقال
// @Tags         revisions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "معرّف المقال"
// @Success      200  {object}  common.Response{data=[]domain.ArticleRevision}
// @Router       /admin/articles/{id}/revisions [get]
func (h *RevisionHandler) List(c *gin.Context) {
	revisions, err := h.service.List(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, revisions)
}

// Get handles GET /api/admin/articles/:id/revisions/:number
// @Summary      نسخة محددة
// @Tags         revisions
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "معرّف المقال"
// @Param        number  path      int     true  "رقم النسخة"
// @Success      200     {object}  common.Response{data=domain.ArticleRevision}
// @Failure      404     {object}  common.Response
// @Router       /admin/articles/{id}/revisions/{number} [get]
func (h *RevisionHandler) Get(c *gin.Context) {
	number, err := ginutil.ParamInt(c, "number")
	if err != nil {
		common.BadRequest(c, err)
		return
	}

	revision, err := h.service.Get(c.Request.Context(), middleware.GetActor(c), c.Param("id"), number)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, revision)
}

// Create handles POST /api/admin/articles/:id/revisions
// @Summary      حفظ نسخة يدوية
// @Tags         revisions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                        true  "معرّف المقال"
// @Param        body  body      domain.CreateRevisionRequest  true  "سبب التعديل"
// @Success      201   {object}  common.Response{data=domain.ArticleRevision}
// @Router       /admin/articles/{id}/revisions [post]
func (h *RevisionHandler) Create(c *gin.Context) {
	var req domain.CreateRevisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	revision, err := h.service.Create(c.Request.Context(), middleware.GetActor(c), c.Param("id"), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, revision)
}

// Restore handles POST /api/admin/articles/:id/revisions/:number/restore
// @Summary      استعادة نسخة
// @Description  الاستعادة تنشئ نسخة جديدة ولا تحذف النسخ اللاحقة
// @Tags         revisions
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "معرّف المقال"
// @Param        number  path      int     true  "رقم النسخة"
// @Success      200     {object}  common.Response{data=domain.Article}
// @Failure      403     {object}  common.Response
// @Failure      404     {object}  common.Response
// @Router       /admin/articles/{id}/revisions/{number}/restore [post]
func (h *RevisionHandler) Restore(c *gin.Context) {
	number, err := ginutil.ParamInt(c, "number")
	if err != nil {
		common.BadRequest(c, err)
		return
	}

	article, err := h.service.Restore(c.Request.Context(), middleware.GetActor(c), c.Param("id"), number)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, article)
}

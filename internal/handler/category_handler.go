package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/internal/service"
	"github.com/nabaa/newsroom/pkg/ginutil"
)

// CategoryHandler handles category requests
type CategoryHandler struct {
	service service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(service service.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List handles GET /api/admin/categories
// @Summary      الأقسام
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        search     query  string  false  "بحث بالاسم"
// @Param        is_active  query  bool    false  "الحالة"
// @Success      200  {object}  common.Response{data=[]domain.Category}
// @Router       /admin/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	categories, err := h.service.List(c.Request.Context(), c.Query("search"), ginutil.QueryBool(c, "is_active"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, categories)
}

// Get handles GET /api/admin/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, category)
}

// Create handles POST /api/admin/categories
// @Summary      إنشاء قسم
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.CategoryRequest  true  "القسم"
// @Success      201   {object}  common.Response{data=domain.Category}
// @Failure      409   {object}  common.Response
// @Router       /admin/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req domain.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	category, err := h.service.Create(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, category)
}

// Update handles PUT /api/admin/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	var req domain.CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	category, err := h.service.Update(c.Request.Context(), middleware.GetActor(c), c.Param("id"), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, category)
}

// Delete handles DELETE /api/admin/categories/:id
// @Summary      حذف قسم
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "معرّف القسم"
// @Success      200  {object}  common.Response
// @Router       /admin/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Message(c, "category.deleted")
}

// Stats handles GET /api/admin/categories/stats
func (h *CategoryHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, stats)
}

// ListPublic handles GET /api/public/categories
// @Summary      الأقسام الفعالة
// @Tags         public
// @Produce      json
// @Success      200  {object}  common.Response{data=[]domain.Category}
// @Router       /public/categories [get]
func (h *CategoryHandler) ListPublic(c *gin.Context) {
	categories, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, categories)
}

// GetPublic handles GET /api/public/categories/:slug
func (h *CategoryHandler) GetPublic(c *gin.Context) {
	category, err := h.service.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if !category.IsActive {
		common.HandleError(c, common.ErrCategoryNotFound)
		return
	}
	common.Success(c, category)
}

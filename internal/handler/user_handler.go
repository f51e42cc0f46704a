package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/internal/service"
	"github.com/nabaa/newsroom/pkg/ginutil"
)

// UserHandler handles staff account management
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/admin/users
// @Summary      المستخدمون
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        search    query  string  false  "بحث بالاسم أو البريد"
// @Param        role      query  string  false  "الدور"
// @Param        page      query  int     false  "الصفحة"  default(1)
// @Param        per_page  query  int     false  "عدد العناصر"  default(20)
// @Success      200  {object}  common.Response{data=[]domain.User}
// @Failure      403  {object}  common.Response
// @Router       /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	role := domain.Role(c.Query("role"))
	if role != "" && !role.Valid() {
		common.HandleError(c, common.ErrInvalidInput)
		return
	}
	page, perPage := ginutil.Pagination(c)

	users, meta, err := h.service.List(c.Request.Context(), middleware.GetActor(c), c.Query("search"), role, page, perPage)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessWithMeta(c, users, meta)
}

// Get handles GET /api/admin/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.Get(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, user)
}

// Create handles POST /api/admin/users
// @Summary      إنشاء مستخدم
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.CreateUserRequest  true  "المستخدم"
// @Success      201   {object}  common.Response{data=domain.User}
// @Failure      409   {object}  common.Response
// @Router       /admin/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req domain.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	user, err := h.service.Create(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, user)
}

// Update handles PUT /api/admin/users/:id
// @Summary      تعديل مستخدم
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "معرّف المستخدم"
// @Param        body  body      domain.UpdateUserRequest  true  "الحقول المعدلة"
// @Success      200   {object}  common.Response{data=domain.User}
// @Router       /admin/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var req domain.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	user, err := h.service.Update(c.Request.Context(), middleware.GetActor(c), c.Param("id"), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, user)
}

// ResetPassword handles PUT /api/admin/users/:id/password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req domain.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	if err := h.service.ResetPassword(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req.NewPassword); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Message(c, "user.password_reset")
}

// Delete handles DELETE /api/admin/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Message(c, "user.deleted")
}

// Stats handles GET /api/admin/users/stats
func (h *UserHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, stats)
}

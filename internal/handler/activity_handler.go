package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/repository"
	"github.com/nabaa/newsroom/pkg/ginutil"
)

// ActivityHandler lists the dashboard audit trail
type ActivityHandler struct {
	repo repository.ActivityLogRepository
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(repo repository.ActivityLogRepository) *ActivityHandler {
	return &ActivityHandler{repo: repo}
}

// List handles GET /api/admin/activity (admin only)
// @Summary      سجل النشاط
// @Tags         activity
// @Produce      json
// @Security     BearerAuth
// @Param        user_id   query  string  false  "المستخدم"
// @Param        action    query  string  false  "الإجراء"
// @Param        page      query  int     false  "الصفحة"  default(1)
// @Param        per_page  query  int     false  "عدد العناصر"  default(20)
// @Success      200  {object}  common.Response{data=[]domain.ActivityLog}
// @Router       /admin/activity [get]
func (h *ActivityHandler) List(c *gin.Context) {
	page, perPage := ginutil.Pagination(c)
	entries, total, err := h.repo.List(c.Request.Context(), c.Query("user_id"), c.Query("action"), (page-1)*perPage, perPage)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessWithMeta(c, entries, common.NewMeta(page, perPage, total))
}

package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/internal/service"
	"github.com/nabaa/newsroom/pkg/ginutil"
)

// NotificationHandler handles notification requests
type NotificationHandler struct {
	service *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(service *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /api/admin/notifications
// @Summary      الإشعارات
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread    query  bool  false  "غير المقروءة فقط"
// @Param        page      query  int   false  "الصفحة"  default(1)
// @Param        per_page  query  int   false  "عدد العناصر"  default(20)
// @Success      200  {object}  common.Response{data=[]domain.Notification}
// @Router       /admin/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	unreadOnly := false
	if v := ginutil.QueryBool(c, "unread"); v != nil {
		unreadOnly = *v
	}
	page, perPage := ginutil.Pagination(c)

	items, meta, err := h.service.List(c.Request.Context(), middleware.GetActor(c), unreadOnly, page, perPage)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessWithMeta(c, items, meta)
}

// UnreadCount handles GET /api/admin/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	summary, err := h.service.UnreadCount(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, summary)
}

// MarkRead handles POST /api/admin/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Message(c, "notification.read")
}

// MarkAllRead handles POST /api/admin/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(c.Request.Context(), middleware.GetActor(c)); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Message(c, "notification.read")
}

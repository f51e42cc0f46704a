package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/internal/service"
)

// WorkflowHandler handles editorial status transitions
type WorkflowHandler struct {
	service service.WorkflowService
}

// NewWorkflowHandler creates a new WorkflowHandler
func NewWorkflowHandler(service service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{service: service}
}

// ChangeStatus handles PATCH /api/admin/articles/:id/status
// @Summary      تغيير حالة المقال
// @Description  كل تغيير يسجل صفاً واحداً في سجل سير العمل
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                      true  "معرّف المقال"
// @Param        body  body      domain.ChangeStatusRequest  true  "الحالة الجديدة"
// @Success      200   {object}  common.Response{data=domain.Article}
// @Failure      400   {object}  common.Response
// @Failure      403   {object}  common.Response
// @Failure      404   {object}  common.Response
// @Router       /admin/articles/{id}/status [patch]
func (h *WorkflowHandler) ChangeStatus(c *gin.Context) {
	var req domain.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	article, err := h.service.ChangeStatus(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req.Status, req.Comment)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, article)
}

// Schedule handles POST /api/admin/articles/:id/schedule
// @Summary      جدولة النشر
// @Tags         workflow
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "معرّف المقال"
// @Param        body  body      domain.ScheduleRequest  true  "موعد النشر"
// @Success      200   {object}  common.Response{data=domain.Article}
// @Router       /admin/articles/{id}/schedule [post]
func (h *WorkflowHandler) Schedule(c *gin.Context) {
	var req domain.ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	article, err := h.service.Schedule(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req.ScheduledAt, req.Comment)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, article)
}

// Publish handles POST /api/admin/articles/:id/publish
// @Summary      نشر المقال
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "معرّف المقال"
// @Success      200  {object}  common.Response{data=domain.Article}
// @Router       /admin/articles/{id}/publish [post]
func (h *WorkflowHandler) Publish(c *gin.Context) {
	article, err := h.service.Publish(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, article)
}

// History handles GET /api/admin/articles/:id/history
// @Summary      سجل سير العمل
// @Tags         workflow
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "معرّف المقال"
// @Success      200  {object}  common.Response{data=[]domain.WorkflowHistory}
// @Router       /admin/articles/{id}/history [get]
func (h *WorkflowHandler) History(c *gin.Context) {
	history, err := h.service.History(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, history)
}

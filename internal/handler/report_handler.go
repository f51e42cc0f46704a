package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler serves the editorial workbook
type ReportHandler struct {
	service *service.ReportService
	now     func() time.Time
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service, now: time.Now}
}

// Editorial handles GET /api/admin/reports/editorial.xlsx
// Dates are YYYY-MM-DD; the default range is the last 30 days and "to" is inclusive.
// @Summary      تقرير التحرير
// @Tags         reports
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        from  query  string  false  "من (YYYY-MM-DD)"
// @Param        to    query  string  false  "إلى (YYYY-MM-DD)"
// @Success      200
// @Failure      403  {object}  common.Response
// @Router       /admin/reports/editorial.xlsx [get]
func (h *ReportHandler) Editorial(c *gin.Context) {
	today := h.now().UTC().Truncate(24 * time.Hour)
	from, err := parseDay(c.Query("from"), today.AddDate(0, 0, -30))
	if err != nil {
		common.BadRequest(c, err)
		return
	}
	to, err := parseDay(c.Query("to"), today)
	if err != nil {
		common.BadRequest(c, err)
		return
	}
	to = to.Add(24 * time.Hour)

	var buf bytes.Buffer
	if err := h.service.ExportEditorial(c.Request.Context(), middleware.GetActor(c), from, to, &buf); err != nil {
		common.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("editorial-%s-%s.xlsx", from.Format("20060102"), to.AddDate(0, 0, -1).Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func parseDay(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	return time.Parse("2006-01-02", value)
}

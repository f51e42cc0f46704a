package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/service"
	"github.com/nabaa/newsroom/pkg/ginutil"
)

// SearchHandler handles public article search
type SearchHandler struct {
	service *service.SearchService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(service *service.SearchService) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search handles GET /api/public/search
// @Summary      البحث في المقالات المنشورة
// @Tags         public
// @Produce      json
// @Param        q         query  string  true   "عبارة البحث"
// @Param        page      query  int     false  "الصفحة"  default(1)
// @Param        per_page  query  int     false  "عدد العناصر"  default(20)
// @Success      200  {object}  common.Response{data=[]domain.Article}
// @Failure      400  {object}  common.Response
// @Router       /public/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	page, perPage := ginutil.Pagination(c)
	articles, meta, err := h.service.Search(c.Request.Context(), strings.TrimSpace(c.Query("q")), page, perPage)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessWithMeta(c, articles, meta)
}

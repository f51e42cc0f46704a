package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/internal/service"
	"github.com/nabaa/newsroom/pkg/ginutil"
)

// ArticleHandler handles article requests for the dashboard and the public site
type ArticleHandler struct {
	service service.ArticleService
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(service service.ArticleService) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// List handles GET /api/admin/articles
// @Summary      قائمة المقالات
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        status       query  string  false  "الحالة"
// @Param        category_id  query  string  false  "القسم"
// @Param        author_id    query  string  false  "الكاتب"
// @Param        search       query  string  false  "بحث في العنوان"
// @Param        is_featured  query  bool    false  "مميز"
// @Param        is_breaking  query  bool    false  "عاجل"
// @Param        page         query  int     false  "الصفحة"  default(1)
// @Param        per_page     query  int     false  "عدد العناصر"  default(20)
// @Success      200  {object}  common.Response{data=[]domain.Article}
// @Router       /admin/articles [get]
func (h *ArticleHandler) List(c *gin.Context) {
	filter := domain.ArticleFilter{
		Status:     domain.ArticleStatus(c.Query("status")),
		CategoryID: c.Query("category_id"),
		AuthorID:   c.Query("author_id"),
		Search:     c.Query("search"),
		Featured:   ginutil.QueryBool(c, "is_featured"),
		Breaking:   ginutil.QueryBool(c, "is_breaking"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		common.HandleError(c, common.ErrInvalidStatus)
		return
	}
	page, perPage := ginutil.Pagination(c)

	articles, meta, err := h.service.List(c.Request.Context(), middleware.GetActor(c), filter, page, perPage)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessWithMeta(c, articles, meta)
}

// Get handles GET /api/admin/articles/:id
// @Summary      تفاصيل مقال
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "معرّف المقال"
// @Success      200  {object}  common.Response{data=domain.Article}
// @Failure      404  {object}  common.Response
// @Router       /admin/articles/{id} [get]
func (h *ArticleHandler) Get(c *gin.Context) {
	article, err := h.service.Get(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, article)
}

// Create handles POST /api/admin/articles
// @Summary      إنشاء مقال
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.CreateArticleRequest  true  "المقال"
// @Success      201   {object}  common.Response{data=domain.Article}
// @Failure      400   {object}  common.Response
// @Failure      409   {object}  common.Response
// @Router       /admin/articles [post]
func (h *ArticleHandler) Create(c *gin.Context) {
	var req domain.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	article, err := h.service.Create(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, article)
}

// Update handles PUT /api/admin/articles/:id
// @Summary      تعديل مقال
// @Description  تعديل العنوان أو المحتوى ينشئ نسخة جديدة
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                       true  "معرّف المقال"
// @Param        body  body      domain.UpdateArticleRequest  true  "الحقول المعدلة"
// @Success      200   {object}  common.Response{data=domain.Article}
// @Failure      403   {object}  common.Response
// @Failure      404   {object}  common.Response
// @Router       /admin/articles/{id} [put]
func (h *ArticleHandler) Update(c *gin.Context) {
	var req domain.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	article, err := h.service.Update(c.Request.Context(), middleware.GetActor(c), c.Param("id"), &req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, article)
}

// Delete handles DELETE /api/admin/articles/:id
// @Summary      حذف مقال
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "معرّف المقال"
// @Success      200  {object}  common.Response
// @Failure      403  {object}  common.Response
// @Router       /admin/articles/{id} [delete]
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Message(c, "article.deleted")
}

// Stats handles GET /api/admin/articles/stats
// @Summary      إحصائيات المقالات
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  common.Response{data=domain.ArticleStats}
// @Router       /admin/articles/stats [get]
func (h *ArticleHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), middleware.GetActor(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, stats)
}

// ListTags handles GET /api/admin/articles/:id/tags
func (h *ArticleHandler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, tags)
}

// AddTag handles POST /api/admin/articles/:id/tags
// @Summary      إضافة وسم
// @Tags         articles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "معرّف المقال"
// @Param        body  body      domain.AddTagRequest  true  "الوسم"
// @Success      201   {object}  common.Response{data=domain.Tag}
// @Router       /admin/articles/{id}/tags [post]
func (h *ArticleHandler) AddTag(c *gin.Context) {
	var req domain.AddTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return
	}

	tag, err := h.service.AddTag(c.Request.Context(), middleware.GetActor(c), c.Param("id"), req.Name)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Created(c, tag)
}

// RemoveTag handles DELETE /api/admin/articles/:id/tags/:tagId
func (h *ArticleHandler) RemoveTag(c *gin.Context) {
	if err := h.service.RemoveTag(c.Request.Context(), middleware.GetActor(c), c.Param("id"), c.Param("tagId")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.Message(c, "tag.removed")
}

// ListPublished handles GET /api/public/articles
// @Summary      أحدث المقالات المنشورة
// @Tags         public
// @Produce      json
// @Param        category  query  string  false  "slug القسم"
// @Param        featured  query  bool    false  "المميزة فقط"
// @Param        breaking  query  bool    false  "العاجلة فقط"
// @Param        page      query  int     false  "الصفحة"  default(1)
// @Param        per_page  query  int     false  "عدد العناصر"  default(20)
// @Success      200  {object}  common.Response{data=[]domain.Article}
// @Router       /public/articles [get]
func (h *ArticleHandler) ListPublished(c *gin.Context) {
	q := domain.PublicArticleQuery{CategorySlug: c.Query("category")}
	if v := ginutil.QueryBool(c, "featured"); v != nil {
		q.Featured = *v
	}
	if v := ginutil.QueryBool(c, "breaking"); v != nil {
		q.Breaking = *v
	}
	page, perPage := ginutil.Pagination(c)

	articles, meta, err := h.service.ListPublished(c.Request.Context(), q, page, perPage)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.SuccessWithMeta(c, articles, meta)
}

// GetPublished handles GET /api/public/articles/:slug
// @Summary      قراءة مقال منشور
// @Tags         public
// @Produce      json
// @Param        slug  path      string  true  "slug المقال"
// @Success      200   {object}  common.Response{data=domain.Article}
// @Failure      404   {object}  common.Response
// @Router       /public/articles/{slug} [get]
func (h *ArticleHandler) GetPublished(c *gin.Context) {
	article, err := h.service.GetPublished(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, article)
}

// Related handles GET /api/public/articles/:slug/related
func (h *ArticleHandler) Related(c *gin.Context) {
	articles, err := h.service.Related(c.Request.Context(), c.Param("slug"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, articles)
}

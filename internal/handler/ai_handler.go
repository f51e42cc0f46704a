package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/internal/service"
)

// AIHandler exposes the writing assist endpoints.
// Provider failures come back as empty results, never as errors.
type AIHandler struct {
	service service.AIService
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(service service.AIService) *AIHandler {
	return &AIHandler{service: service}
}

func (h *AIHandler) bind(c *gin.Context) (*domain.AIContentRequest, bool) {
	var req domain.AIContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.BadRequest(c, err)
		return nil, false
	}
	return &req, true
}

// Summarize handles POST /api/admin/ai/summarize
// @Summary      تلخيص المحتوى
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.AIContentRequest  true  "المحتوى"
// @Success      200   {object}  common.Response
// @Failure      429   {object}  common.Response
// @Router       /admin/ai/summarize [post]
func (h *AIHandler) Summarize(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	summary, err := h.service.Summarize(c.Request.Context(), middleware.GetActor(c), req.Content, req.MaxLength)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, gin.H{"summary": summary})
}

// SuggestTitles handles POST /api/admin/ai/titles
func (h *AIHandler) SuggestTitles(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	titles, err := h.service.SuggestTitles(c.Request.Context(), middleware.GetActor(c), req.Title, req.Content)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, gin.H{"titles": titles})
}

// Sentiment handles POST /api/admin/ai/sentiment
func (h *AIHandler) Sentiment(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	result, err := h.service.AnalyzeSentiment(c.Request.Context(), middleware.GetActor(c), req.Content)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, result)
}

// Keywords handles POST /api/admin/ai/keywords
func (h *AIHandler) Keywords(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	keywords, err := h.service.ExtractKeywords(c.Request.Context(), middleware.GetActor(c), req.Title, req.Content)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, gin.H{"keywords": keywords})
}

// Improvements handles POST /api/admin/ai/improvements
func (h *AIHandler) Improvements(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	suggestions, err := h.service.SuggestImprovements(c.Request.Context(), middleware.GetActor(c), req.Title, req.Content)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, gin.H{"suggestions": suggestions})
}

// SEODescription handles POST /api/admin/ai/seo-description
func (h *AIHandler) SEODescription(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	description, err := h.service.GenerateSEODescription(c.Request.Context(), middleware.GetActor(c), req.Title, req.Content)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, gin.H{"seo_description": description})
}

// Readability handles POST /api/admin/ai/readability
// @Summary      مؤشر سهولة القراءة
// @Description  يحسب محلياً دون استدعاء مزود الذكاء الاصطناعي
// @Tags         ai
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.AIContentRequest  true  "المحتوى"
// @Success      200   {object}  common.Response
// @Router       /admin/ai/readability [post]
func (h *AIHandler) Readability(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	score, err := h.service.Readability(c.Request.Context(), middleware.GetActor(c), req.Content)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, gin.H{"score": score})
}

// AnalyzeArticle handles POST /api/admin/ai/articles/:id/analyze
// @Summary      تحليل مقال كامل
// @Tags         ai
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "معرّف المقال"
// @Success      200  {object}  common.Response{data=domain.AIFeature}
// @Router       /admin/ai/articles/{id}/analyze [post]
func (h *AIHandler) AnalyzeArticle(c *gin.Context) {
	feature, err := h.service.AnalyzeArticle(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, feature)
}

// GetAnalysis handles GET /api/admin/ai/articles/:id
func (h *AIHandler) GetAnalysis(c *gin.Context) {
	feature, err := h.service.GetAnalysis(c.Request.Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.Success(c, feature)
}

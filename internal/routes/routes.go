package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/handler"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/pkg/jwt"
	"github.com/redis/go-redis/v9"
)

// Handlers groups every HTTP handler mounted by Setup
type Handlers struct {
	Auth         *handler.AuthHandler
	Article      *handler.ArticleHandler
	Workflow     *handler.WorkflowHandler
	Revision     *handler.RevisionHandler
	Comment      *handler.CommentHandler
	Category     *handler.CategoryHandler
	User         *handler.UserHandler
	AI           *handler.AIHandler
	Media        *handler.MediaHandler
	Notification *handler.NotificationHandler
	Report       *handler.ReportHandler
	Search       *handler.SearchHandler
	Activity     *handler.ActivityHandler
	WS           *handler.WSHandler
}

// Options carries the shared middleware dependencies
type Options struct {
	JWT         *jwt.Manager
	Redis       *redis.Client // nil disables AI rate limiting
	AIRateLimit middleware.RateLimitConfig
	Activity    middleware.ActivityRecorder // nil disables the activity log
	// CookieSecure marks the CSRF cookie Secure
	CookieSecure bool
}

// Setup configures all API routes
func Setup(router *gin.Engine, h *Handlers, opts Options) {
	auth := middleware.JWTAuth(opts.JWT)

	// Public site
	public := router.Group("/api/public")
	{
		public.GET("/articles", h.Article.ListPublished)
		public.GET("/articles/:slug", h.Article.GetPublished)
		public.GET("/articles/:slug/related", h.Article.Related)
		public.GET("/categories", h.Category.ListPublic)
		public.GET("/categories/:slug", h.Category.GetPublic)
		public.GET("/search", h.Search.Search)
	}

	// Authentication
	authGroup := router.Group("/api/auth")
	{
		authGroup.POST("/login", h.Auth.Login)
		authGroup.POST("/refresh", h.Auth.Refresh)
		authGroup.POST("/logout", h.Auth.Logout)
		authGroup.GET("/csrf", middleware.GenerateCSRFToken(opts.CookieSecure))
		authGroup.GET("/me", auth, h.Auth.Me)
	}

	// Dashboard; role checks live in the services
	admin := router.Group("/api/admin", auth, middleware.CSRFProtection(), middleware.ActivityLogger(opts.Activity))

	articles := admin.Group("/articles")
	{
		articles.GET("", h.Article.List)
		articles.POST("", h.Article.Create)
		articles.GET("/stats", h.Article.Stats)
		articles.GET("/:id", h.Article.Get)
		articles.PUT("/:id", h.Article.Update)
		articles.DELETE("/:id", h.Article.Delete)

		// Workflow
		articles.PATCH("/:id/status", h.Workflow.ChangeStatus)
		articles.POST("/:id/schedule", h.Workflow.Schedule)
		articles.POST("/:id/publish", h.Workflow.Publish)
		articles.GET("/:id/history", h.Workflow.History)

		// Revisions
		articles.GET("/:id/revisions", h.Revision.List)
		articles.POST("/:id/revisions", h.Revision.Create)
		articles.GET("/:id/revisions/:number", h.Revision.Get)
		articles.POST("/:id/revisions/:number/restore", h.Revision.Restore)

		// Editorial comments
		articles.GET("/:id/comments", h.Comment.List)
		articles.POST("/:id/comments", h.Comment.Add)

		// Tags
		articles.GET("/:id/tags", h.Article.ListTags)
		articles.POST("/:id/tags", h.Article.AddTag)
		articles.DELETE("/:id/tags/:tagId", h.Article.RemoveTag)
	}

	comments := admin.Group("/comments")
	{
		comments.POST("/:commentId/resolve", h.Comment.Resolve)
		comments.POST("/:commentId/unresolve", h.Comment.Unresolve)
	}

	categories := admin.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.POST("", h.Category.Create)
		categories.GET("/stats", h.Category.Stats)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
	}

	users := admin.Group("/users")
	{
		users.GET("", h.User.List)
		users.POST("", h.User.Create)
		users.GET("/stats", h.User.Stats)
		users.GET("/:id", h.User.Get)
		users.PUT("/:id", h.User.Update)
		users.PUT("/:id/password", h.User.ResetPassword)
		users.DELETE("/:id", h.User.Delete)
	}

	ai := admin.Group("/ai",
		middleware.RequireRole(domain.RoleWriter),
		middleware.RateLimitPerUser(opts.Redis, opts.AIRateLimit),
	)
	{
		ai.POST("/summarize", h.AI.Summarize)
		ai.POST("/titles", h.AI.SuggestTitles)
		ai.POST("/sentiment", h.AI.Sentiment)
		ai.POST("/keywords", h.AI.Keywords)
		ai.POST("/improvements", h.AI.Improvements)
		ai.POST("/seo-description", h.AI.SEODescription)
		ai.POST("/readability", h.AI.Readability)
		ai.GET("/articles/:id", h.AI.GetAnalysis)
		ai.POST("/articles/:id/analyze", h.AI.AnalyzeArticle)
	}

	media := admin.Group("/media")
	{
		media.GET("", h.Media.List)
		media.POST("", h.Media.Upload)
		media.DELETE("/:id", h.Media.Delete)
	}

	notifications := admin.Group("/notifications")
	{
		notifications.GET("", h.Notification.List)
		notifications.GET("/unread-count", h.Notification.UnreadCount)
		notifications.POST("/read-all", h.Notification.MarkAllRead)
		notifications.POST("/:id/read", h.Notification.MarkRead)
	}

	admin.GET("/reports/editorial.xlsx", middleware.RequireRole(domain.RoleEditor), h.Report.Editorial)
	admin.GET("/activity", middleware.RequireAdmin(), h.Activity.List)

	// Realtime
	router.GET("/ws/notifications", auth, h.WS.Connect)
}

// Package app wires repositories, services and handlers into one container
// shared by the API server, the CLI and the HTTP tests.
package app

import (
	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/config"
	"github.com/nabaa/newsroom/internal/events"
	"github.com/nabaa/newsroom/internal/handler"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/internal/repository"
	"github.com/nabaa/newsroom/internal/routes"
	"github.com/nabaa/newsroom/internal/service"
	"github.com/nabaa/newsroom/internal/ws"
	"github.com/nabaa/newsroom/pkg/cache"
	"github.com/nabaa/newsroom/pkg/jwt"
	"github.com/nabaa/newsroom/pkg/llm"
	"github.com/nabaa/newsroom/pkg/storage"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options are the external resources the container is built from.
// Redis, LLM and Index are optional.
type Options struct {
	DB          *gorm.DB
	Redis       *redis.Client
	JWT         *jwt.Manager
	LLM         llm.Client
	Store       storage.Store
	Index       service.SearchIndex
	Server      config.ServerConfig
	CORSOrigins []string
	AIRateLimit middleware.RateLimitConfig
	AsyncEvents bool
}

// App holds every service of the newsroom
type App struct {
	opts Options

	Bus   *events.Bus
	Hub   *ws.Hub
	Cache cache.Service

	Articles   repository.ArticleRepository
	Users      repository.UserRepository
	History    repository.WorkflowRepository
	Activities repository.ActivityLogRepository

	ArticleService      service.ArticleService
	WorkflowService     service.WorkflowService
	RevisionService     service.RevisionService
	EditorialService    service.EditorialService
	CategoryService     service.CategoryService
	UserService         service.UserService
	AuthService         service.AuthService
	AIService           service.AIService
	MediaService        service.MediaService
	SearchService       *service.SearchService
	NotificationService *service.NotificationService
	ReportService       *service.ReportService
}

// New builds the container and subscribes search indexing and notifications to the event bus.
// The hub is created but not started; call Hub.Run in the server.
func New(opts Options) *App {
	if opts.LLM == nil {
		opts.LLM = llm.Disabled{}
	}

	db := opts.DB
	a := &App{
		opts:       opts,
		Bus:        events.NewBus(opts.AsyncEvents),
		Hub:        ws.NewHub(opts.Redis),
		Cache:      cache.NewService(opts.Redis),
		Articles:   repository.NewArticleRepository(db),
		Users:      repository.NewUserRepository(db),
		History:    repository.NewWorkflowRepository(db),
		Activities: repository.NewActivityLogRepository(db),
	}

	categories := repository.NewCategoryRepository(db)
	tags := repository.NewTagRepository(db)
	revisions := repository.NewRevisionRepository(db)
	comments := repository.NewEditorialCommentRepository(db)

	a.ArticleService = service.NewArticleService(a.Articles, categories, tags, a.Cache, a.Bus)
	a.WorkflowService = service.NewWorkflowService(a.Articles, a.History, a.Cache, a.Bus)
	a.RevisionService = service.NewRevisionService(a.Articles, revisions, a.Cache, a.Bus)
	a.EditorialService = service.NewEditorialService(a.Articles, comments, a.Bus)
	a.CategoryService = service.NewCategoryService(categories, a.Cache, a.Bus)
	a.UserService = service.NewUserService(a.Users)
	a.AuthService = service.NewAuthService(a.Users, opts.JWT)
	a.AIService = service.NewAIService(opts.LLM, a.Articles, repository.NewAIFeatureRepository(db))
	a.MediaService = service.NewMediaService(repository.NewMediaRepository(db), opts.Store)
	a.SearchService = service.NewSearchService(opts.Index, a.Articles)
	a.NotificationService = service.NewNotificationService(repository.NewNotificationRepository(db), a.Hub)
	a.ReportService = service.NewReportService(a.Articles, a.History, a.Users)

	a.SearchService.Subscribe(a.Bus)
	a.NotificationService.Subscribe(a.Bus)
	return a
}

// Mount registers every API route on router
func (a *App) Mount(router *gin.Engine) {
	routes.Setup(router, &routes.Handlers{
		Auth:         handler.NewAuthHandler(a.AuthService, a.opts.JWT, a.opts.Server),
		Article:      handler.NewArticleHandler(a.ArticleService),
		Workflow:     handler.NewWorkflowHandler(a.WorkflowService),
		Revision:     handler.NewRevisionHandler(a.RevisionService),
		Comment:      handler.NewCommentHandler(a.EditorialService),
		Category:     handler.NewCategoryHandler(a.CategoryService),
		User:         handler.NewUserHandler(a.UserService),
		AI:           handler.NewAIHandler(a.AIService),
		Media:        handler.NewMediaHandler(a.MediaService),
		Notification: handler.NewNotificationHandler(a.NotificationService),
		Report:       handler.NewReportHandler(a.ReportService),
		Search:       handler.NewSearchHandler(a.SearchService),
		Activity:     handler.NewActivityHandler(a.Activities),
		WS:           handler.NewWSHandler(a.Hub, a.opts.CORSOrigins),
	}, routes.Options{
		JWT:          a.opts.JWT,
		Redis:        a.opts.Redis,
		AIRateLimit:  a.opts.AIRateLimit,
		Activity:     a.Activities,
		CookieSecure: a.opts.Server.CookieSecure,
	})
}

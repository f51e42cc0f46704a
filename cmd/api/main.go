package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/docs"
	"github.com/nabaa/newsroom/internal/app"
	"github.com/nabaa/newsroom/internal/config"
	"github.com/nabaa/newsroom/internal/handler"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/internal/migration"
	"github.com/nabaa/newsroom/internal/worker"
	pkglogger "github.com/nabaa/newsroom/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Newsroom API
// @version         1.0
// @description     Arabic-first newsroom CMS: editorial workflow, revisions and public site API
//
// @license.name    MIT
//
// @host            localhost:8080
// @BasePath        /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	loaded := config.LoadDotEnv()

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	pkglogger.InitStructured(cfg.Env, cfg.Log.Level)
	log := pkglogger.GetLogger()
	if len(loaded) > 0 {
		log.Info().Strs("files", loaded).Msg("env files loaded")
	}
	config.LogResolved(cfg)

	db, err := app.OpenDatabase(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := migration.Run(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	res, err := app.Connect(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("resource setup failed")
	}
	defer res.Close()

	a := app.FromConfig(cfg, db, res)
	go a.Hub.Run()

	if err := handler.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("validator registration failed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.SearchService.Enabled() {
		if err := a.SearchService.EnsureIndex(ctx); err != nil {
			log.Warn().Err(err).Msg("search index setup failed")
		}
	}

	scheduler := worker.NewScheduler(30 * time.Second)
	scheduler.Register("db-stats", time.Minute, func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		middleware.SetDBConnectionsOpen(float64(sqlDB.Stats().OpenConnections))
		return nil
	})
	if cfg.Scheduler.Enabled {
		scheduler.Register("publish-scheduled", cfg.Scheduler.Interval, func(ctx context.Context) error {
			n, err := a.WorkflowService.PublishDue(ctx)
			if n > 0 {
				log.Info().Int("count", n).Msg("scheduled articles published")
			}
			return err
		})
	}
	scheduler.Start(ctx)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     config.SplitOrigins(cfg.CORS.AllowOrigins),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", "Authorization", "X-CSRF-Token", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", "Content-Disposition"},
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RequestLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.I18n())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", handler.NewHealthHandler(db, res.Redis).Check)
	if cfg.IsDevelopment() {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", cfg.Server.Port)
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	if !cfg.Storage.Enabled {
		router.Static(cfg.Storage.LocalURLPrefix, cfg.Storage.LocalDir)
	}

	a.Mount(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	scheduler.Stop()
	a.Hub.Stop()
	a.Bus.Wait()
	log.Info().Msg("server stopped")
}

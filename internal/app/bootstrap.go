package app

import (
	"fmt"
	"time"

	"github.com/nabaa/newsroom/internal/config"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/internal/service"
	pkges "github.com/nabaa/newsroom/pkg/elasticsearch"
	"github.com/nabaa/newsroom/pkg/jwt"
	"github.com/nabaa/newsroom/pkg/llm"
	pkglogger "github.com/nabaa/newsroom/pkg/logger"
	pkgredis "github.com/nabaa/newsroom/pkg/redis"
	"github.com/nabaa/newsroom/pkg/storage"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenDatabase connects with the configured driver. TranslateError is required by
// the revision numbering retry.
func OpenDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	default:
		dialector = mysql.Open(cfg.GetDSN())
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Driver == "sqlite" {
		// sqlite allows a single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	return db, nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// Resources are the optional external clients built from config
type Resources struct {
	Redis *redis.Client
	Index service.SearchIndex
	Store storage.Store
	LLM   llm.Client
}

// Close releases the clients that hold connections
func (r *Resources) Close() {
	if r.Redis != nil {
		_ = r.Redis.Close()
	}
}

// Connect builds the optional clients. Redis and Elasticsearch failures are logged
// and the feature degrades; an unusable storage or LLM config is an error.
func Connect(cfg *config.Config) (*Resources, error) {
	log := pkglogger.GetLogger()
	res := &Resources{}

	if cfg.Redis.Enabled {
		client, err := pkgredis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, cache and AI rate limiting disabled")
		} else {
			res.Redis = client
		}
	}

	if cfg.Search.Enabled && len(cfg.Search.Addresses) > 0 {
		client, err := pkges.NewClient(cfg.Search.Addresses, cfg.Search.Username, cfg.Search.Password)
		if err != nil {
			log.Warn().Err(err).Msg("elasticsearch unavailable, search falls back to SQL")
		} else {
			res.Index = client
		}
	}

	if cfg.Storage.Enabled && cfg.Storage.Bucket != "" {
		s3Client, err := storage.NewS3Client(storage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			CDNURL:          cfg.Storage.CDNURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err != nil {
			res.Close()
			return nil, fmt.Errorf("s3 storage: %w", err)
		}
		res.Store = s3Client
	} else {
		local, err := storage.NewLocalStore(cfg.Storage.LocalDir, cfg.Storage.LocalURLPrefix)
		if err != nil {
			res.Close()
			return nil, fmt.Errorf("local storage: %w", err)
		}
		res.Store = local
	}

	client, err := llm.New(cfg.LLM)
	if err != nil {
		res.Close()
		return nil, err
	}
	res.LLM = client
	log.Info().Str("llm_model", client.Model()).Msg("AI assist configured")

	return res, nil
}

// FromConfig builds the container from config and connected resources
func FromConfig(cfg *config.Config, db *gorm.DB, res *Resources) *App {
	return New(Options{
		DB:          db,
		Redis:       res.Redis,
		JWT:         jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn),
		LLM:         res.LLM,
		Store:       res.Store,
		Index:       res.Index,
		Server:      cfg.Server,
		CORSOrigins: config.SplitOrigins(cfg.CORS.AllowOrigins),
		AIRateLimit: middleware.RateLimitConfig{
			Requests:  cfg.RateLimit.AIRequests,
			Window:    cfg.RateLimit.AIWindow,
			KeyPrefix: "newsroom:ratelimit:ai:",
		},
		AsyncEvents: true,
	})
}

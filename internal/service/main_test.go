package service

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/migration"
	"github.com/nabaa/newsroom/internal/repository"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	admin   = &domain.Actor{ID: "u-admin", Role: domain.RoleAdmin, Name: "مدير"}
	editor  = &domain.Actor{ID: "u-editor", Role: domain.RoleEditor, Name: "محرر"}
	writer  = &domain.Actor{ID: "u-writer", Role: domain.RoleWriter, Name: "كاتب"}
	writer2 = &domain.Actor{ID: "u-writer2", Role: domain.RoleWriter, Name: "كاتب آخر"}
	reader  = &domain.Actor{ID: "u-reader", Role: domain.RoleUser, Name: "قارئ"}
)

var fixedNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

// stepClock starts at fixedNow and advances one second on every reading
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock { return &stepClock{now: fixedNow} }

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, migration.Run(db))
	return db
}

// repos bundles sqlite-backed repositories for service tests
type repos struct {
	db         *gorm.DB
	articles   repository.ArticleRepository
	revisions  repository.RevisionRepository
	history    repository.WorkflowRepository
	comments   repository.EditorialCommentRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	users      repository.UserRepository
}

func newRepos(t *testing.T) *repos {
	db := openTestDB(t)
	return &repos{
		db:         db,
		articles:   repository.NewArticleRepository(db),
		revisions:  repository.NewRevisionRepository(db),
		history:    repository.NewWorkflowRepository(db),
		comments:   repository.NewEditorialCommentRepository(db),
		categories: repository.NewCategoryRepository(db),
		tags:       repository.NewTagRepository(db),
		users:      repository.NewUserRepository(db),
	}
}

func seedUser(t *testing.T, r *repos, actor *domain.Actor, email, password string, active bool) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &domain.User{
		ID:        actor.ID,
		Name:      actor.Name,
		Email:     email,
		Password:  string(hash),
		Role:      actor.Role,
		IsActive:  active,
		CreatedAt: fixedNow,
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	require.NoError(t, r.db.Create(u).Error)
	return u
}

func strPtr(s string) *string { return &s }

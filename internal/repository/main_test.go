package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/migration"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, migration.Run(db))
	return db
}

func newArticle(title, slug, authorID string, status domain.ArticleStatus) *domain.Article {
	now := time.Now()
	return &domain.Article{
		ID:              uuid.New().String(),
		Title:           title,
		Slug:            slug,
		Content:         "<p>" + title + "</p>",
		AuthorID:        authorID,
		Status:          status,
		CurrentRevision: 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func firstRevision(a *domain.Article) *domain.ArticleRevision {
	reason := domain.EditReasonInitial
	return &domain.ArticleRevision{
		ID:         uuid.New().String(),
		Title:      a.Title,
		Content:    a.Content,
		EditedBy:   a.AuthorID,
		EditReason: &reason,
		CreatedAt:  time.Now(),
	}
}

package repository

import (
	"context"
	"time"

	"github.com/nabaa/newsroom/internal/domain"
	"gorm.io/gorm"
)

// WorkflowRepository reads the status transition log
type WorkflowRepository interface {
	ListByArticle(ctx context.Context, articleID string) ([]*domain.WorkflowHistory, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*domain.WorkflowHistory, error)
}

type workflowRepository struct {
	db *gorm.DB
}

// NewWorkflowRepository creates a new WorkflowRepository
func NewWorkflowRepository(db *gorm.DB) WorkflowRepository {
	return &workflowRepository{db: db}
}

func (r *workflowRepository) ListByArticle(ctx context.Context, articleID string) ([]*domain.WorkflowHistory, error) {
	var rows []*domain.WorkflowHistory
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at DESC").
		Order("seq DESC").
		Find(&rows).Error
	return rows, err
}

func (r *workflowRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*domain.WorkflowHistory, error) {
	var rows []*domain.WorkflowHistory
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Order("seq ASC").
		Find(&rows).Error
	return rows, err
}

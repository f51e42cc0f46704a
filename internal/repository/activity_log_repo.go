package repository

import (
	"context"

	"github.com/nabaa/newsroom/internal/domain"
	"gorm.io/gorm"
)

// ActivityLogRepository writes and reads dashboard activity
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	List(ctx context.Context, userID, action string, offset, limit int) ([]*domain.ActivityLog, int64, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new ActivityLogRepository
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// List retrieves paginated activity with optional filters
func (r *activityLogRepository) List(ctx context.Context, userID, action string, offset, limit int) ([]*domain.ActivityLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.ActivityLog{})
	if userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []*domain.ActivityLog
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&logs).Error
	return logs, total, err
}

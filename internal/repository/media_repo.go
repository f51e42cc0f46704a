package repository

import (
	"context"
	"errors"

	"github.com/nabaa/newsroom/internal/domain"
	"gorm.io/gorm"
)

// MediaRepository uploaded media data access
type MediaRepository interface {
	Create(ctx context.Context, media *domain.Media) error
	FindByID(ctx context.Context, id string) (*domain.Media, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Media, int64, error)
	Delete(ctx context.Context, id string) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new MediaRepository
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, media *domain.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *mediaRepository) FindByID(ctx context.Context, id string) (*domain.Media, error) {
	var media domain.Media
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&media).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &media, nil
}

func (r *mediaRepository) List(ctx context.Context, offset, limit int) ([]*domain.Media, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Media{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var items []*domain.Media
	err := r.db.WithContext(ctx).Order("created_at DESC").Offset(offset).Limit(limit).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *mediaRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Media{}).Error
}

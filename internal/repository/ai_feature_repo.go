package repository

import (
	"context"
	"errors"

	"github.com/nabaa/newsroom/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AIFeatureRepository stores the latest analysis per article
type AIFeatureRepository interface {
	Upsert(ctx context.Context, feature *domain.AIFeature) error
	FindByArticle(ctx context.Context, articleID string) (*domain.AIFeature, error)
}

type aiFeatureRepository struct {
	db *gorm.DB
}

// NewAIFeatureRepository creates a new AIFeatureRepository
func NewAIFeatureRepository(db *gorm.DB) AIFeatureRepository {
	return &aiFeatureRepository{db: db}
}

// Upsert inserts or replaces the analysis keyed by article_id
func (r *aiFeatureRepository) Upsert(ctx context.Context, feature *domain.AIFeature) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "article_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"summary", "sentiment", "sentiment_score", "keywords", "suggested_titles",
			"suggestions", "seo_description", "readability_score", "updated_at",
		}),
	}).Create(feature).Error
}

func (r *aiFeatureRepository) FindByArticle(ctx context.Context, articleID string) (*domain.AIFeature, error) {
	var feature domain.AIFeature
	err := r.db.WithContext(ctx).Where("article_id = ?", articleID).First(&feature).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &feature, nil
}

package repository

import (
	"context"
	"errors"

	"github.com/nabaa/newsroom/internal/domain"
	"gorm.io/gorm"
)

// RevisionRepository reads article revisions. Revisions are written only through
// ArticleRepository so that numbering and current_revision stay in step.
type RevisionRepository interface {
	ListByArticle(ctx context.Context, articleID string) ([]*domain.ArticleRevision, error)
	FindByNumber(ctx context.Context, articleID string, number int) (*domain.ArticleRevision, error)
}

type revisionRepository struct {
	db *gorm.DB
}

// NewRevisionRepository creates a new RevisionRepository
func NewRevisionRepository(db *gorm.DB) RevisionRepository {
	return &revisionRepository{db: db}
}

func (r *revisionRepository) ListByArticle(ctx context.Context, articleID string) ([]*domain.ArticleRevision, error) {
	var revisions []*domain.ArticleRevision
	err := r.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("revision_number DESC").
		Find(&revisions).Error
	return revisions, err
}

func (r *revisionRepository) FindByNumber(ctx context.Context, articleID string, number int) (*domain.ArticleRevision, error) {
	var revision domain.ArticleRevision
	err := r.db.WithContext(ctx).
		Where("article_id = ? AND revision_number = ?", articleID, number).
		First(&revision).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &revision, nil
}

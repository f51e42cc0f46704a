package repository

import (
	"context"
	"errors"
	"time"

	"github.com/nabaa/newsroom/internal/domain"
	"gorm.io/gorm"
)

// EditorialCommentRepository editorial comment data access
type EditorialCommentRepository interface {
	Create(ctx context.Context, comment *domain.EditorialComment) error
	FindByID(ctx context.Context, id string) (*domain.EditorialComment, error)
	ListByArticle(ctx context.Context, articleID string, blockID *string) ([]*domain.EditorialComment, error)
	MarkResolved(ctx context.Context, id, resolvedBy string, at time.Time) (*domain.EditorialComment, bool, error)
	MarkUnresolved(ctx context.Context, id string, at time.Time) (*domain.EditorialComment, bool, error)
}

type editorialCommentRepository struct {
	db *gorm.DB
}

// NewEditorialCommentRepository creates a new EditorialCommentRepository
func NewEditorialCommentRepository(db *gorm.DB) EditorialCommentRepository {
	return &editorialCommentRepository{db: db}
}

// Create inserts the comment with the next per-article seq
func (r *editorialCommentRepository) Create(ctx context.Context, comment *domain.EditorialComment) error {
	var err error
	for attempt := 0; attempt < maxSequenceAttempts; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			last, err := maxSeq(tx, &domain.EditorialComment{}, "seq", comment.ArticleID)
			if err != nil {
				return err
			}
			comment.Seq = last + 1
			return tx.Create(comment).Error
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}

func (r *editorialCommentRepository) FindByID(ctx context.Context, id string) (*domain.EditorialComment, error) {
	var comment domain.EditorialComment
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

func (r *editorialCommentRepository) ListByArticle(ctx context.Context, articleID string, blockID *string) ([]*domain.EditorialComment, error) {
	var comments []*domain.EditorialComment
	query := r.db.WithContext(ctx).Where("article_id = ?", articleID)
	if blockID != nil {
		query = query.Where("block_id = ?", *blockID)
	}
	err := query.Order("created_at DESC").Order("seq DESC").Find(&comments).Error
	return comments, err
}

// MarkResolved resolves the comment only if it is still open, so the first resolver wins.
// It returns the stored row (nil when missing) and whether this call changed it.
func (r *editorialCommentRepository) MarkResolved(ctx context.Context, id, resolvedBy string, at time.Time) (*domain.EditorialComment, bool, error) {
	return r.flip(ctx, id, false, map[string]interface{}{
		"is_resolved": true,
		"resolved_by": resolvedBy,
		"resolved_at": at,
		"updated_at":  at,
	})
}

// MarkUnresolved reopens the comment only if it is resolved
func (r *editorialCommentRepository) MarkUnresolved(ctx context.Context, id string, at time.Time) (*domain.EditorialComment, bool, error) {
	return r.flip(ctx, id, true, map[string]interface{}{
		"is_resolved": false,
		"resolved_by": nil,
		"resolved_at": nil,
		"updated_at":  at,
	})
}

func (r *editorialCommentRepository) flip(ctx context.Context, id string, from bool, values map[string]interface{}) (*domain.EditorialComment, bool, error) {
	res := r.db.WithContext(ctx).Model(&domain.EditorialComment{}).
		Where("id = ? AND is_resolved = ?", id, from).
		Updates(values)
	if res.Error != nil {
		return nil, false, res.Error
	}
	comment, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return comment, res.RowsAffected == 1, nil
}

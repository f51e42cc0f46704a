package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nabaa/newsroom/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TagRepository tag and article_tags data access
type TagRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Tag, error)
	ListByArticle(ctx context.Context, articleID string) ([]*domain.Tag, error)
	// Attach links the tag named name (created with slug when missing) to the article.
	// usage_count only grows when the link is new.
	Attach(ctx context.Context, articleID, name, slug string) (*domain.Tag, error)
	// Detach unlinks a tag; usage_count never drops below zero.
	Detach(ctx context.Context, articleID, tagID string) error
}

// TagName is a normalized tag name with the slug used when the tag is new
type TagName struct {
	Name string
	Slug string
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) FindByID(ctx context.Context, id string) (*domain.Tag, error) {
	var tag domain.Tag
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&tag).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) ListByArticle(ctx context.Context, articleID string) ([]*domain.Tag, error) {
	var tags []*domain.Tag
	err := r.db.WithContext(ctx).
		Joins("JOIN article_tags ON article_tags.tag_id = tags.id").
		Where("article_tags.article_id = ?", articleID).
		Order("tags.name ASC").
		Find(&tags).Error
	return tags, err
}

func (r *tagRepository) Attach(ctx context.Context, articleID, name, slug string) (*domain.Tag, error) {
	var tag *domain.Tag
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		tag, err = attachTag(tx, articleID, TagName{Name: name, Slug: slug})
		return err
	})
	if err != nil {
		return nil, err
	}
	return tag, nil
}

// attachTag runs inside the caller's transaction so an article insert and its tags commit together
func attachTag(tx *gorm.DB, articleID string, name TagName) (*domain.Tag, error) {
	var tag domain.Tag
	err := tx.Where("name = ?", name.Name).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		slug, serr := freeTagSlug(tx, name.Slug)
		if serr != nil {
			return nil, serr
		}
		tag = domain.Tag{ID: uuid.New().String(), Name: name.Name, Slug: slug}
		err = tx.Create(&tag).Error
	}
	if err != nil {
		return nil, err
	}

	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&domain.ArticleTag{
		ArticleID: articleID,
		TagID:     tag.ID,
		CreatedAt: time.Now(),
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return &tag, nil
	}
	tag.UsageCount++
	err = tx.Model(&domain.Tag{}).Where("id = ?", tag.ID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1")).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// freeTagSlug suffixes slug when another tag name already maps to it ("Economy" and "economy")
func freeTagSlug(tx *gorm.DB, slug string) (string, error) {
	var count int64
	if err := tx.Model(&domain.Tag{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return slug, nil
	}
	return slug + "-" + uuid.New().String()[:6], nil
}

func (r *tagRepository) Detach(ctx context.Context, articleID, tagID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("article_id = ? AND tag_id = ?", articleID, tagID).Delete(&domain.ArticleTag{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&domain.Tag{}).
			Where("id = ? AND usage_count > 0", tagID).
			UpdateColumn("usage_count", gorm.Expr("usage_count - 1")).Error
	})
}

package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/nabaa/newsroom/internal/domain"
	"gorm.io/gorm"
)

// CategoryRepository category data access
type CategoryRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	List(ctx context.Context, search string, isActive *bool) ([]*domain.Category, error)
	Create(ctx context.Context, category *domain.Category) error
	Save(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.CategoryStats, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *categoryRepository) findOne(ctx context.Context, cond string, arg interface{}) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).Where(cond, arg).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Category{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List orders by display_order DESC, then name
func (r *categoryRepository) List(ctx context.Context, search string, isActive *bool) ([]*domain.Category, error) {
	query := r.db.WithContext(ctx).Model(&domain.Category{})
	if s := strings.TrimSpace(search); s != "" {
		like := "%" + s + "%"
		query = query.Where("name LIKE ? OR slug LIKE ?", like, like)
	}
	if isActive != nil {
		query = query.Where("is_active = ?", *isActive)
	}

	var categories []*domain.Category
	err := query.Order("display_order DESC").Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) Save(ctx context.Context, category *domain.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// Delete removes the category and detaches its articles
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Article{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Category{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *categoryRepository) Stats(ctx context.Context) (*domain.CategoryStats, error) {
	stats := &domain.CategoryStats{}
	db := r.db.WithContext(ctx)
	if err := db.Model(&domain.Category{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&domain.Category{}).Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	stats.Inactive = stats.Total - stats.Active
	return stats, nil
}

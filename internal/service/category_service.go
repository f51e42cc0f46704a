package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/events"
	"github.com/nabaa/newsroom/internal/repository"
	"github.com/nabaa/newsroom/pkg/cache"
	"github.com/nabaa/newsroom/pkg/slug"
	"gorm.io/gorm"
)

// CategoryService category management and public listing
type CategoryService interface {
	List(ctx context.Context, search string, isActive *bool) ([]*domain.Category, error)
	ListActive(ctx context.Context) ([]*domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	Create(ctx context.Context, actor *domain.Actor, req *domain.CategoryRequest) (*domain.Category, error)
	Update(ctx context.Context, actor *domain.Actor, id string, req *domain.CategoryRequest) (*domain.Category, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
	Stats(ctx context.Context, actor *domain.Actor) (*domain.CategoryStats, error)
}

type categoryService struct {
	repo   repository.CategoryRepository
	cache  cache.Service
	events events.Publisher
	now    func() time.Time
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(repo repository.CategoryRepository, cacheService cache.Service, publisher events.Publisher) CategoryService {
	if cacheService == nil {
		cacheService = cache.NewService(nil)
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &categoryService{repo: repo, cache: cacheService, events: publisher, now: time.Now}
}

func (s *categoryService) List(ctx context.Context, search string, isActive *bool) ([]*domain.Category, error) {
	return s.repo.List(ctx, strings.TrimSpace(search), isActive)
}

// ListActive is the cached public listing
func (s *categoryService) ListActive(ctx context.Context) ([]*domain.Category, error) {
	key := s.cache.CategoriesKey("active")
	var cached []*domain.Category
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	active := true
	items, err := s.repo.List(ctx, "", &active)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, items, cache.TTLCategories)
	return items, nil
}

func (s *categoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, common.ErrCategoryNotFound
	}
	return category, nil
}

func (s *categoryService) GetBySlug(ctx context.Context, categorySlug string) (*domain.Category, error) {
	category, err := s.repo.FindBySlug(ctx, categorySlug)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, common.ErrCategoryNotFound
	}
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, actor *domain.Actor, req *domain.CategoryRequest) (*domain.Category, error) {
	if err := domain.Require(actor, domain.RoleEditor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.ErrInvalidInput
	}
	categorySlug, err := s.checkSlug(ctx, req.Slug, name, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	category := &domain.Category{
		ID:           uuid.New().String(),
		Name:         name,
		Slug:         categorySlug,
		Description:  req.Description,
		IconURL:      req.IconURL,
		HeroImage:    req.HeroImage,
		Color:        req.Color,
		ParentID:     emptyToNil(req.ParentID),
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := s.repo.Create(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.ErrSlugTaken
		}
		return nil, err
	}
	s.changed(ctx, actor)
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, actor *domain.Actor, id string, req *domain.CategoryRequest) (*domain.Category, error) {
	if err := domain.Require(actor, domain.RoleEditor); err != nil {
		return nil, err
	}
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.ErrInvalidInput
	}
	if req.Slug != "" && req.Slug != category.Slug {
		categorySlug, err := s.checkSlug(ctx, req.Slug, name, id)
		if err != nil {
			return nil, err
		}
		category.Slug = categorySlug
	}
	if req.ParentID != nil && *req.ParentID == id {
		return nil, common.ErrInvalidInput
	}

	category.Name = name
	category.Description = req.Description
	category.IconURL = req.IconURL
	category.HeroImage = req.HeroImage
	category.Color = req.Color
	category.ParentID = emptyToNil(req.ParentID)
	category.DisplayOrder = req.DisplayOrder
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}
	category.UpdatedAt = s.now()

	if err := s.repo.Save(ctx, category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, common.ErrSlugTaken
		}
		return nil, err
	}
	s.changed(ctx, actor)
	return category, nil
}

// Delete removes the category; its articles become uncategorized
func (s *categoryService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	if err := domain.Require(actor, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrCategoryNotFound
		}
		return err
	}
	s.changed(ctx, actor)
	_ = s.cache.InvalidateArticles(ctx)
	return nil
}

func (s *categoryService) Stats(ctx context.Context, actor *domain.Actor) (*domain.CategoryStats, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	return s.repo.Stats(ctx)
}

// checkSlug normalizes the requested slug (or the name) and rejects one already in use
func (s *categoryService) checkSlug(ctx context.Context, requested, name, excludeID string) (string, error) {
	categorySlug := slug.Make(requested)
	if categorySlug == "" {
		categorySlug = slug.Make(name)
	}
	if categorySlug == "" {
		return "", common.ErrInvalidInput
	}
	taken, err := s.repo.SlugExists(ctx, categorySlug, excludeID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", common.ErrSlugTaken
	}
	return categorySlug, nil
}

func (s *categoryService) changed(ctx context.Context, actor *domain.Actor) {
	_ = s.cache.InvalidateCategories(ctx)
	s.events.Publish(ctx, events.Event{Topic: events.TopicCategoryChanged, Actor: actor})
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

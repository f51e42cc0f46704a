package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/events"
	"github.com/nabaa/newsroom/internal/repository"
	"github.com/nabaa/newsroom/pkg/cache"
	"github.com/nabaa/newsroom/pkg/htmltext"
	"github.com/nabaa/newsroom/pkg/metrics"
	"github.com/nabaa/newsroom/pkg/slug"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	excerptRunes     = 200
	wordsPerMinute   = 200
	slugAttempts     = 10
	slugSuffixLength = 4
	relatedLimit     = 4
)

// ArticleService article CRUD, tags and public reads
type ArticleService interface {
	List(ctx context.Context, actor *domain.Actor, filter domain.ArticleFilter, page, perPage int) ([]*domain.Article, *common.Meta, error)
	Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Article, error)
	Create(ctx context.Context, actor *domain.Actor, req *domain.CreateArticleRequest) (*domain.Article, error)
	Update(ctx context.Context, actor *domain.Actor, id string, req *domain.UpdateArticleRequest) (*domain.Article, error)
	Delete(ctx context.Context, actor *domain.Actor, id string) error
	Stats(ctx context.Context, actor *domain.Actor) (*domain.ArticleStats, error)

	ListTags(ctx context.Context, actor *domain.Actor, articleID string) ([]*domain.Tag, error)
	AddTag(ctx context.Context, actor *domain.Actor, articleID, name string) (*domain.Tag, error)
	RemoveTag(ctx context.Context, actor *domain.Actor, articleID, tagID string) error

	ListPublished(ctx context.Context, q domain.PublicArticleQuery, page, perPage int) ([]*domain.Article, *common.Meta, error)
	GetPublished(ctx context.Context, slug string) (*domain.Article, error)
	Related(ctx context.Context, slug string) ([]*domain.Article, error)
}

type articleService struct {
	articles   repository.ArticleRepository
	categories repository.CategoryRepository
	tags       repository.TagRepository
	cache      cache.Service
	events     events.Publisher
	now        func() time.Time
}

// NewArticleService creates a new ArticleService
func NewArticleService(
	articles repository.ArticleRepository,
	categories repository.CategoryRepository,
	tags repository.TagRepository,
	cacheService cache.Service,
	publisher events.Publisher,
) ArticleService {
	if cacheService == nil {
		cacheService = cache.NewService(nil)
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &articleService{
		articles:   articles,
		categories: categories,
		tags:       tags,
		cache:      cacheService,
		events:     publisher,
		now:        time.Now,
	}
}

// List returns the dashboard listing. Writers only see their own articles.
func (s *articleService) List(ctx context.Context, actor *domain.Actor, filter domain.ArticleFilter, page, perPage int) ([]*domain.Article, *common.Meta, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, nil, err
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, nil, common.ErrInvalidStatus
	}
	if actor.Role == domain.RoleWriter {
		filter.AuthorID = actor.ID
	}

	items, total, err := s.articles.List(ctx, filter, (page-1)*perPage, perPage)
	if err != nil {
		return nil, nil, err
	}
	return items, common.NewMeta(page, perPage, total), nil
}

func (s *articleService) Get(ctx context.Context, actor *domain.Actor, id string) (*domain.Article, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

func (s *articleService) find(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, common.ErrArticleNotFound
	}
	return article, nil
}

// Create stores the article with revision 1
func (s *articleService) Create(ctx context.Context, actor *domain.Actor, req *domain.CreateArticleRequest) (*domain.Article, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || strings.TrimSpace(req.Content) == "" {
		return nil, common.ErrInvalidInput
	}

	status := req.Status
	if status == "" {
		status = domain.StatusDraft
	}
	if !status.Valid() {
		return nil, common.ErrInvalidStatus
	}
	tags := make([]repository.TagName, 0, len(req.Tags))
	for _, name := range req.Tags {
		tag, err := tagName(name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}

	base := slug.Make(req.Slug)
	if base == "" {
		base = slug.Make(title)
	}
	if base == "" {
		base = "article"
	}
	articleSlug, err := s.uniqueSlug(ctx, base, "")
	if err != nil {
		return nil, err
	}

	now := s.now()
	article := &domain.Article{
		ID:              uuid.New().String(),
		Title:           title,
		Subtitle:        req.Subtitle,
		Slug:            articleSlug,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		AuthorID:        actor.ID,
		CategoryID:      req.CategoryID,
		Status:          status,
		FeaturedImage:   req.FeaturedImage,
		IsFeatured:      req.IsFeatured,
		IsBreaking:      req.IsBreaking,
		SEOTitle:        req.SEOTitle,
		SEODescription:  req.SEODescription,
		SEOKeywords:     keywordsJSON(req.SEOKeywords),
		ReadingTime:     htmltext.ReadingTime(req.Content, wordsPerMinute),
		VideoURL:        req.VideoURL,
		AudioURL:        req.AudioURL,
		SourceURL:       req.SourceURL,
		SourceName:      req.SourceName,
		CurrentRevision: 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if article.Excerpt == nil {
		article.Excerpt = derivedExcerpt(req.Content)
	}
	if status == domain.StatusPublished {
		article.PublishedAt = &now
	}

	reason := domain.EditReasonInitial
	revision := &domain.ArticleRevision{
		ID:         uuid.New().String(),
		Title:      article.Title,
		Subtitle:   article.Subtitle,
		Content:    article.Content,
		Excerpt:    article.Excerpt,
		EditedBy:   actor.ID,
		EditReason: &reason,
		CreatedAt:  now,
	}

	if err := s.articles.CreateWithRevision(ctx, article, revision, tags...); err != nil {
		if errors.Is(err, repository.ErrSlugConflict) {
			return nil, common.ErrSlugTaken
		}
		return nil, fmt.Errorf("create article: %w", err)
	}
	metrics.RevisionCreated()

	s.events.Publish(ctx, events.Event{Topic: events.TopicArticleSaved, Actor: actor, Article: article})
	return article, nil
}

// uniqueSlug returns base when free, else base-xxxx, giving up after slugAttempts tries
func (s *articleService) uniqueSlug(ctx context.Context, base, excludeID string) (string, error) {
	candidate := base
	for attempt := 0; attempt <= slugAttempts; attempt++ {
		exists, err := s.articles.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = slug.WithSuffix(base, slugSuffixLength)
	}
	return "", common.ErrSlugExhausted
}

// Update applies a partial update. Title or content changes append a revision.
func (s *articleService) Update(ctx context.Context, actor *domain.Actor, id string, req *domain.UpdateArticleRequest) (*domain.Article, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, common.ErrInvalidInput
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		return nil, common.ErrInvalidInput
	}

	var newSlug string
	if req.Slug != nil {
		newSlug = slug.Make(*req.Slug)
		if newSlug == "" {
			return nil, common.ErrInvalidInput
		}
		taken, err := s.articles.SlugExists(ctx, newSlug, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, common.ErrSlugTaken
		}
	}

	var oldSlug string
	revisioned := req.TouchesContent()
	updated, err := s.articles.Mutate(ctx, id, func(a *domain.Article) (*repository.ArticleChange, error) {
		if !canEdit(actor, a) {
			return nil, common.ErrNotOwner
		}
		oldSlug = a.Slug
		now := s.now()

		applyUpdate(a, req)
		if newSlug != "" {
			a.Slug = newSlug
		}
		if req.Content != nil {
			a.ReadingTime = htmltext.ReadingTime(a.Content, wordsPerMinute)
			if req.Excerpt == nil && a.Excerpt == nil {
				a.Excerpt = derivedExcerpt(a.Content)
			}
		}
		a.UpdatedAt = now

		if !revisioned {
			return nil, nil
		}
		a.LastEditedBy = &actor.ID
		reason := domain.EditReasonUpdate
		if req.EditReason != nil && strings.TrimSpace(*req.EditReason) != "" {
			reason = strings.TrimSpace(*req.EditReason)
		}
		return &repository.ArticleChange{Revision: snapshot(a, actor.ID, reason, nil, now)}, nil
	})
	if err != nil {
		return nil, mapArticleErr(err)
	}
	if revisioned {
		metrics.RevisionCreated()
	}

	_ = s.cache.InvalidateArticles(ctx, oldSlug, updated.Slug)
	s.events.Publish(ctx, events.Event{Topic: events.TopicArticleSaved, Actor: actor, Article: updated})
	return updated, nil
}

func applyUpdate(a *domain.Article, req *domain.UpdateArticleRequest) {
	if req.Title != nil {
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.Subtitle != nil {
		a.Subtitle = req.Subtitle
	}
	if req.Content != nil {
		a.Content = *req.Content
	}
	if req.Excerpt != nil {
		a.Excerpt = req.Excerpt
	}
	if req.CategoryID != nil {
		if *req.CategoryID == "" {
			a.CategoryID = nil
		} else {
			a.CategoryID = req.CategoryID
		}
	}
	if req.FeaturedImage != nil {
		a.FeaturedImage = req.FeaturedImage
	}
	if req.IsFeatured != nil {
		a.IsFeatured = *req.IsFeatured
	}
	if req.IsBreaking != nil {
		a.IsBreaking = *req.IsBreaking
	}
	if req.SEOTitle != nil {
		a.SEOTitle = req.SEOTitle
	}
	if req.SEODescription != nil {
		a.SEODescription = req.SEODescription
	}
	if req.SEOKeywords != nil {
		a.SEOKeywords = keywordsJSON(req.SEOKeywords)
	}
	if req.VideoURL != nil {
		a.VideoURL = req.VideoURL
	}
	if req.AudioURL != nil {
		a.AudioURL = req.AudioURL
	}
	if req.SourceURL != nil {
		a.SourceURL = req.SourceURL
	}
	if req.SourceName != nil {
		a.SourceName = req.SourceName
	}
}

// Delete removes the article; revisions and workflow history stay as audit trail
func (s *articleService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	if err := domain.Require(actor, domain.RoleEditor); err != nil {
		return err
	}
	article, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.articles.Delete(ctx, id); err != nil {
		return mapArticleErr(err)
	}

	_ = s.cache.InvalidateArticles(ctx, article.Slug)
	s.events.Publish(ctx, events.Event{Topic: events.TopicArticleDeleted, Actor: actor, Article: article})
	return nil
}

func (s *articleService) Stats(ctx context.Context, actor *domain.Actor) (*domain.ArticleStats, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	counts, err := s.articles.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := &domain.ArticleStats{ByStatus: counts}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

func (s *articleService) ListTags(ctx context.Context, actor *domain.Actor, articleID string) ([]*domain.Tag, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	if _, err := s.find(ctx, articleID); err != nil {
		return nil, err
	}
	return s.tags.ListByArticle(ctx, articleID)
}

func (s *articleService) AddTag(ctx context.Context, actor *domain.Actor, articleID, name string) (*domain.Tag, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	article, err := s.find(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !canEdit(actor, article) {
		return nil, common.ErrNotOwner
	}
	return s.attachTag(ctx, articleID, name)
}

func (s *articleService) attachTag(ctx context.Context, articleID, name string) (*domain.Tag, error) {
	tag, err := tagName(name)
	if err != nil {
		return nil, err
	}
	return s.tags.Attach(ctx, articleID, tag.Name, tag.Slug)
}

func tagName(name string) (repository.TagName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return repository.TagName{}, common.ErrInvalidInput
	}
	tagSlug := slug.Make(name)
	if tagSlug == "" {
		tagSlug = "tag-" + slug.Random(6)
	}
	return repository.TagName{Name: name, Slug: tagSlug}, nil
}

func (s *articleService) RemoveTag(ctx context.Context, actor *domain.Actor, articleID, tagID string) error {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return err
	}
	article, err := s.find(ctx, articleID)
	if err != nil {
		return err
	}
	if !canEdit(actor, article) {
		return common.ErrNotOwner
	}
	if err := s.tags.Detach(ctx, articleID, tagID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrTagNotFound
		}
		return err
	}
	return nil
}

type cachedArticlePage struct {
	Items []*domain.Article `json:"items"`
	Total int64             `json:"total"`
}

// ListPublished is the public listing, cached briefly per query
func (s *articleService) ListPublished(ctx context.Context, q domain.PublicArticleQuery, page, perPage int) ([]*domain.Article, *common.Meta, error) {
	kind := fmt.Sprintf("latest:c=%s:f=%t:b=%t", q.CategorySlug, q.Featured, q.Breaking)
	key := s.cache.ArticleListKey(kind, page, perPage)

	var cached cachedArticlePage
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached.Items, common.NewMeta(page, perPage, cached.Total), nil
	}

	query := repository.PublishedQuery{Featured: q.Featured, Breaking: q.Breaking}
	if q.CategorySlug != "" {
		category, err := s.categories.FindBySlug(ctx, q.CategorySlug)
		if err != nil {
			return nil, nil, err
		}
		if category == nil || !category.IsActive {
			return nil, nil, common.ErrCategoryNotFound
		}
		query.CategoryID = category.ID
	}

	items, total, err := s.articles.ListPublished(ctx, query, (page-1)*perPage, perPage)
	if err != nil {
		return nil, nil, err
	}
	_ = s.cache.Set(ctx, key, cachedArticlePage{Items: items, Total: total}, cache.TTLArticles)
	return items, common.NewMeta(page, perPage, total), nil
}

// GetPublished returns a published article by slug and counts the view
func (s *articleService) GetPublished(ctx context.Context, articleSlug string) (*domain.Article, error) {
	key := s.cache.ArticleKey(articleSlug)

	var article *domain.Article
	var cached domain.Article
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		article = &cached
	} else {
		found, err := s.articles.FindBySlug(ctx, articleSlug)
		if err != nil {
			return nil, err
		}
		if found == nil || found.Status != domain.StatusPublished {
			return nil, common.ErrArticleNotFound
		}
		article = found
		_ = s.cache.Set(ctx, key, article, cache.TTLArticle)
	}

	if err := s.articles.IncrementViews(ctx, article.ID); err != nil {
		return nil, err
	}
	article.Views++
	return article, nil
}

func (s *articleService) Related(ctx context.Context, articleSlug string) ([]*domain.Article, error) {
	article, err := s.articles.FindBySlug(ctx, articleSlug)
	if err != nil {
		return nil, err
	}
	if article == nil || article.Status != domain.StatusPublished {
		return nil, common.ErrArticleNotFound
	}
	return s.articles.ListRelated(ctx, article, relatedLimit)
}

// canEdit: editors and admins edit anything, writers only their own articles
func canEdit(actor *domain.Actor, article *domain.Article) bool {
	if actor.Role.AtLeast(domain.RoleEditor) {
		return true
	}
	return actor.Role == domain.RoleWriter && article.AuthorID == actor.ID
}

func snapshot(a *domain.Article, editorID, reason string, changes datatypes.JSON, now time.Time) *domain.ArticleRevision {
	return &domain.ArticleRevision{
		ID:         uuid.New().String(),
		Title:      a.Title,
		Subtitle:   a.Subtitle,
		Content:    a.Content,
		Excerpt:    a.Excerpt,
		Changes:    changes,
		EditedBy:   editorID,
		EditReason: &reason,
		CreatedAt:  now,
	}
}

func derivedExcerpt(content string) *string {
	excerpt := htmltext.Excerpt(content, excerptRunes)
	if excerpt == "" {
		return nil
	}
	return &excerpt
}

func keywordsJSON(keywords []string) datatypes.JSON {
	if keywords == nil {
		return nil
	}
	raw, err := json.Marshal(keywords)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}

func mapArticleErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.ErrArticleNotFound
	case errors.Is(err, repository.ErrSlugConflict):
		return common.ErrSlugTaken
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return common.ErrRevisionRace
	}
	return err
}

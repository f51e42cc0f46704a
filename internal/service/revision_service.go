package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/events"
	"github.com/nabaa/newsroom/internal/repository"
	"github.com/nabaa/newsroom/pkg/cache"
	"github.com/nabaa/newsroom/pkg/metrics"
	"gorm.io/datatypes"
)

// RestoreReasonFormat is the edit reason recorded when a revision is restored
const RestoreReasonFormat = "استعادة النسخة %d"

// RevisionService reads, snapshots and restores article revisions.
// Revisions are append-only: a restore creates a new revision, it never rewinds the counter.
type RevisionService interface {
	List(ctx context.Context, actor *domain.Actor, articleID string) ([]*domain.ArticleRevision, error)
	Get(ctx context.Context, actor *domain.Actor, articleID string, number int) (*domain.ArticleRevision, error)
	Create(ctx context.Context, actor *domain.Actor, articleID string, req *domain.CreateRevisionRequest) (*domain.ArticleRevision, error)
	Restore(ctx context.Context, actor *domain.Actor, articleID string, number int) (*domain.Article, error)
}

type revisionService struct {
	articles  repository.ArticleRepository
	revisions repository.RevisionRepository
	cache     cache.Service
	events    events.Publisher
	now       func() time.Time
}

// NewRevisionService creates a new RevisionService
func NewRevisionService(
	articles repository.ArticleRepository,
	revisions repository.RevisionRepository,
	cacheService cache.Service,
	publisher events.Publisher,
) RevisionService {
	if cacheService == nil {
		cacheService = cache.NewService(nil)
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &revisionService{
		articles:  articles,
		revisions: revisions,
		cache:     cacheService,
		events:    publisher,
		now:       time.Now,
	}
}

func (s *revisionService) List(ctx context.Context, actor *domain.Actor, articleID string) ([]*domain.ArticleRevision, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	if err := s.ensureArticle(ctx, articleID); err != nil {
		return nil, err
	}
	return s.revisions.ListByArticle(ctx, articleID)
}

func (s *revisionService) Get(ctx context.Context, actor *domain.Actor, articleID string, number int) (*domain.ArticleRevision, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	revision, err := s.revisions.FindByNumber(ctx, articleID, number)
	if err != nil {
		return nil, err
	}
	if revision == nil {
		return nil, common.ErrRevisionNotFound
	}
	return revision, nil
}

// Create snapshots the live article as the next revision, recording changes and the reason
func (s *revisionService) Create(ctx context.Context, actor *domain.Actor, articleID string, req *domain.CreateRevisionRequest) (*domain.ArticleRevision, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(req.EditReason)
	if reason == "" {
		return nil, common.ErrInvalidInput
	}

	var changes datatypes.JSON
	if req.Changes != nil {
		raw, err := json.Marshal(req.Changes)
		if err != nil {
			return nil, fmt.Errorf("%w: changes", common.ErrInvalidInput)
		}
		changes = raw
	}

	var revision *domain.ArticleRevision
	_, err := s.articles.Mutate(ctx, articleID, func(a *domain.Article) (*repository.ArticleChange, error) {
		if !canEdit(actor, a) {
			return nil, common.ErrNotOwner
		}
		now := s.now()
		a.LastEditedBy = &actor.ID
		a.UpdatedAt = now
		revision = snapshot(a, actor.ID, reason, changes, now)
		return &repository.ArticleChange{Revision: revision}, nil
	})
	if err != nil {
		return nil, mapArticleErr(err)
	}
	metrics.RevisionCreated()
	return revision, nil
}

// Restore copies revision number's title, subtitle, content and excerpt onto the article
// and records the result as a new revision.
func (s *revisionService) Restore(ctx context.Context, actor *domain.Actor, articleID string, number int) (*domain.Article, error) {
	if err := domain.Require(actor, domain.RoleEditor); err != nil {
		return nil, err
	}
	source, err := s.revisions.FindByNumber(ctx, articleID, number)
	if err != nil {
		return nil, err
	}
	if source == nil {
		if err := s.ensureArticle(ctx, articleID); err != nil {
			return nil, err
		}
		return nil, common.ErrRevisionNotFound
	}

	reason := fmt.Sprintf(RestoreReasonFormat, number)
	article, err := s.articles.Mutate(ctx, articleID, func(a *domain.Article) (*repository.ArticleChange, error) {
		now := s.now()
		a.Title = source.Title
		a.Subtitle = source.Subtitle
		a.Content = source.Content
		a.Excerpt = source.Excerpt
		a.LastEditedBy = &actor.ID
		a.UpdatedAt = now
		return &repository.ArticleChange{Revision: snapshot(a, actor.ID, reason, nil, now)}, nil
	})
	if err != nil {
		return nil, mapArticleErr(err)
	}
	metrics.RevisionCreated()

	_ = s.cache.InvalidateArticles(ctx, article.Slug)
	s.events.Publish(ctx, events.Event{Topic: events.TopicArticleSaved, Actor: actor, Article: article})
	return article, nil
}

func (s *revisionService) ensureArticle(ctx context.Context, articleID string) error {
	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return err
	}
	if article == nil {
		return common.ErrArticleNotFound
	}
	return nil
}

package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/events"
	"github.com/nabaa/newsroom/internal/repository"
	"github.com/nabaa/newsroom/pkg/cache"
	"github.com/nabaa/newsroom/pkg/metrics"
)

// WorkflowService moves articles between editorial statuses and keeps the transition log.
// Any status may follow any other; every call writes exactly one history row.
type WorkflowService interface {
	ChangeStatus(ctx context.Context, actor *domain.Actor, articleID string, to domain.ArticleStatus, comment *string) (*domain.Article, error)
	Schedule(ctx context.Context, actor *domain.Actor, articleID string, at time.Time, comment *string) (*domain.Article, error)
	Publish(ctx context.Context, actor *domain.Actor, articleID string) (*domain.Article, error)
	History(ctx context.Context, actor *domain.Actor, articleID string) ([]*domain.WorkflowHistory, error)
	PublishDue(ctx context.Context) (int, error)
}

type workflowService struct {
	articles repository.ArticleRepository
	history  repository.WorkflowRepository
	cache    cache.Service
	events   events.Publisher
	now      func() time.Time
}

// NewWorkflowService creates a new WorkflowService
func NewWorkflowService(
	articles repository.ArticleRepository,
	history repository.WorkflowRepository,
	cacheService cache.Service,
	publisher events.Publisher,
) WorkflowService {
	if cacheService == nil {
		cacheService = cache.NewService(nil)
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &workflowService{
		articles: articles,
		history:  history,
		cache:    cacheService,
		events:   publisher,
		now:      time.Now,
	}
}

func (s *workflowService) ChangeStatus(ctx context.Context, actor *domain.Actor, articleID string, to domain.ArticleStatus, comment *string) (*domain.Article, error) {
	return s.transition(ctx, actor, articleID, to, comment, nil)
}

// Schedule sets scheduled_at and moves the article to scheduled
func (s *workflowService) Schedule(ctx context.Context, actor *domain.Actor, articleID string, at time.Time, comment *string) (*domain.Article, error) {
	if at.IsZero() {
		return nil, common.ErrInvalidInput
	}
	return s.transition(ctx, actor, articleID, domain.StatusScheduled, comment, func(a *domain.Article) {
		scheduled := at
		a.ScheduledAt = &scheduled
	})
}

func (s *workflowService) Publish(ctx context.Context, actor *domain.Actor, articleID string) (*domain.Article, error) {
	comment := domain.WorkflowCommentPublish
	return s.transition(ctx, actor, articleID, domain.StatusPublished, &comment, nil)
}

func (s *workflowService) transition(
	ctx context.Context,
	actor *domain.Actor,
	articleID string,
	to domain.ArticleStatus,
	comment *string,
	extra func(*domain.Article),
) (*domain.Article, error) {
	if err := domain.Require(actor, domain.RoleEditor); err != nil {
		return nil, err
	}
	if !to.Valid() {
		return nil, common.ErrInvalidStatus
	}
	if comment != nil && strings.TrimSpace(*comment) == "" {
		comment = nil
	}

	var history *domain.WorkflowHistory
	article, err := s.articles.Mutate(ctx, articleID, func(a *domain.Article) (*repository.ArticleChange, error) {
		now := s.now()
		from := a.Status

		a.Status = to
		if to == domain.StatusPublished {
			a.PublishedAt = &now
		}
		if extra != nil {
			extra(a)
		}
		a.UpdatedAt = now

		history = &domain.WorkflowHistory{
			ID:         uuid.New().String(),
			FromStatus: from,
			ToStatus:   to,
			UserID:     actor.ID,
			Comment:    comment,
			CreatedAt:  now,
		}
		return &repository.ArticleChange{History: history}, nil
	})
	if err != nil {
		return nil, mapArticleErr(err)
	}

	metrics.WorkflowTransition(string(history.FromStatus), string(history.ToStatus))
	_ = s.cache.InvalidateArticles(ctx, article.Slug)
	s.events.Publish(ctx, events.Event{
		Topic:   events.TopicStatusChanged,
		Actor:   actor,
		Article: article,
		History: history,
	})
	return article, nil
}

// History returns transitions newest first
func (s *workflowService) History(ctx context.Context, actor *domain.Actor, articleID string) ([]*domain.WorkflowHistory, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, common.ErrArticleNotFound
	}
	return s.history.ListByArticle(ctx, articleID)
}

const publishDueBatch = 100

// PublishDue publishes scheduled articles whose time has come, as the system actor.
// An article already moved out of scheduled by an editor is left alone.
func (s *workflowService) PublishDue(ctx context.Context) (int, error) {
	due, err := s.articles.ListDueScheduled(ctx, s.now(), publishDueBatch)
	if err != nil {
		return 0, err
	}

	published := 0
	comment := domain.WorkflowCommentScheduledPublish
	for _, candidate := range due {
		var skipped bool
		var history *domain.WorkflowHistory
		article, err := s.articles.Mutate(ctx, candidate.ID, func(a *domain.Article) (*repository.ArticleChange, error) {
			now := s.now()
			if a.Status != domain.StatusScheduled || a.ScheduledAt == nil || a.ScheduledAt.After(now) {
				skipped = true
				return nil, nil
			}
			from := a.Status
			a.Status = domain.StatusPublished
			a.PublishedAt = &now
			a.UpdatedAt = now
			history = &domain.WorkflowHistory{
				ID:         uuid.New().String(),
				FromStatus: from,
				ToStatus:   domain.StatusPublished,
				UserID:     domain.SystemActor.ID,
				Comment:    &comment,
				CreatedAt:  now,
			}
			return &repository.ArticleChange{History: history}, nil
		})
		if err != nil {
			return published, mapArticleErr(err)
		}
		if skipped {
			continue
		}

		published++
		metrics.WorkflowTransition(string(history.FromStatus), string(history.ToStatus))
		_ = s.cache.InvalidateArticles(ctx, article.Slug)
		s.events.Publish(ctx, events.Event{
			Topic:   events.TopicStatusChanged,
			Actor:   domain.SystemActor,
			Article: article,
			History: history,
		})
	}
	return published, nil
}

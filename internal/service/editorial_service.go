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
)

// EditorialService manages reviewer comments on articles
type EditorialService interface {
	Add(ctx context.Context, actor *domain.Actor, articleID string, req *domain.AddEditorialCommentRequest) (*domain.EditorialComment, error)
	List(ctx context.Context, actor *domain.Actor, articleID string, blockID *string) ([]*domain.EditorialComment, error)
	Resolve(ctx context.Context, actor *domain.Actor, commentID string) (*domain.EditorialComment, error)
	Unresolve(ctx context.Context, actor *domain.Actor, commentID string) (*domain.EditorialComment, error)
}

type editorialService struct {
	articles repository.ArticleRepository
	comments repository.EditorialCommentRepository
	events   events.Publisher
	now      func() time.Time
}

// NewEditorialService creates a new EditorialService
func NewEditorialService(
	articles repository.ArticleRepository,
	comments repository.EditorialCommentRepository,
	publisher events.Publisher,
) EditorialService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &editorialService{
		articles: articles,
		comments: comments,
		events:   publisher,
		now:      time.Now,
	}
}

func (s *editorialService) Add(ctx context.Context, actor *domain.Actor, articleID string, req *domain.AddEditorialCommentRequest) (*domain.EditorialComment, error) {
	if err := domain.Require(actor, domain.RoleEditor); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, common.ErrInvalidInput
	}
	article, err := s.findArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}

	blockID := req.BlockID
	if blockID != nil && strings.TrimSpace(*blockID) == "" {
		blockID = nil
	}

	now := s.now()
	comment := &domain.EditorialComment{
		ID:        uuid.New().String(),
		ArticleID: articleID,
		UserID:    actor.ID,
		BlockID:   blockID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.Event{Topic: events.TopicCommentAdded, Actor: actor, Article: article, Comment: comment})
	return comment, nil
}

// List returns comments newest first, optionally only those anchored to blockID
func (s *editorialService) List(ctx context.Context, actor *domain.Actor, articleID string, blockID *string) ([]*domain.EditorialComment, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	if _, err := s.findArticle(ctx, articleID); err != nil {
		return nil, err
	}
	return s.comments.ListByArticle(ctx, articleID, blockID)
}

// Resolve marks the comment resolved. Resolving twice keeps the first resolver and time.
func (s *editorialService) Resolve(ctx context.Context, actor *domain.Actor, commentID string) (*domain.EditorialComment, error) {
	if err := domain.Require(actor, domain.RoleEditor); err != nil {
		return nil, err
	}
	comment, changed, err := s.comments.MarkResolved(ctx, commentID, actor.ID, s.now())
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, common.ErrCommentNotFound
	}

	if changed {
		if article, err := s.articles.FindByID(ctx, comment.ArticleID); err == nil && article != nil {
			s.events.Publish(ctx, events.Event{Topic: events.TopicCommentResolved, Actor: actor, Article: article, Comment: comment})
		}
	}
	return comment, nil
}

// Unresolve reopens a resolved comment
func (s *editorialService) Unresolve(ctx context.Context, actor *domain.Actor, commentID string) (*domain.EditorialComment, error) {
	if err := domain.Require(actor, domain.RoleEditor); err != nil {
		return nil, err
	}
	comment, _, err := s.comments.MarkUnresolved(ctx, commentID, s.now())
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, common.ErrCommentNotFound
	}
	return comment, nil
}

func (s *editorialService) findArticle(ctx context.Context, id string) (*domain.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, common.ErrArticleNotFound
	}
	return article, nil
}

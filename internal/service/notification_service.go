package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/events"
	"github.com/nabaa/newsroom/internal/repository"
	"github.com/nabaa/newsroom/internal/ws"
	"github.com/nabaa/newsroom/pkg/i18n"
	pkglogger "github.com/nabaa/newsroom/pkg/logger"
	"gorm.io/gorm"
)

// Pusher delivers realtime events to a user's open sockets
type Pusher interface {
	SendToUser(userID string, event *ws.Event)
}

// NotificationService stores and pushes notifications for article authors
type NotificationService struct {
	repo   repository.NotificationRepository
	pusher Pusher
	locale i18n.Locale
	now    func() time.Time
}

// NewNotificationService creates a new NotificationService. pusher may be nil.
func NewNotificationService(repo repository.NotificationRepository, pusher Pusher) *NotificationService {
	return &NotificationService{repo: repo, pusher: pusher, locale: i18n.LocaleAr, now: time.Now}
}

// Subscribe notifies authors about workflow and editorial comment events
func (s *NotificationService) Subscribe(bus *events.Bus) {
	bus.Subscribe("notifications", events.TopicStatusChanged, s.onStatusChanged)
	bus.Subscribe("notifications", events.TopicCommentAdded, s.onCommentAdded)
	bus.Subscribe("notifications", events.TopicCommentResolved, s.onCommentResolved)
}

func (s *NotificationService) onStatusChanged(ctx context.Context, e events.Event) {
	if e.Article == nil || e.History == nil {
		return
	}
	bundle := i18n.Default()
	from := bundle.T(s.locale, "status."+string(e.History.FromStatus))
	to := bundle.T(s.locale, "status."+string(e.History.ToStatus))

	notifyType := domain.NotificationInfo
	switch e.History.ToStatus {
	case domain.StatusPublished, domain.StatusApproved:
		notifyType = domain.NotificationSuccess
	case domain.StatusKilled:
		notifyType = domain.NotificationWarning
	}
	s.notifyAuthor(ctx, e, notifyType,
		bundle.T(s.locale, "notify.status_changed.title"),
		bundle.T(s.locale, "notify.status_changed.message", e.Article.Title, from, to))
}

func (s *NotificationService) onCommentAdded(ctx context.Context, e events.Event) {
	if e.Article == nil {
		return
	}
	bundle := i18n.Default()
	name := ""
	if e.Actor != nil {
		name = e.Actor.Name
	}
	s.notifyAuthor(ctx, e, domain.NotificationInfo,
		bundle.T(s.locale, "notify.comment_added.title"),
		bundle.T(s.locale, "notify.comment_added.message", name, e.Article.Title))
}

func (s *NotificationService) onCommentResolved(ctx context.Context, e events.Event) {
	if e.Article == nil {
		return
	}
	bundle := i18n.Default()
	s.notifyAuthor(ctx, e, domain.NotificationSuccess,
		bundle.T(s.locale, "notify.comment_resolved.title"),
		bundle.T(s.locale, "notify.comment_resolved.message", e.Article.Title))
}

// notifyAuthor skips the author's own actions
func (s *NotificationService) notifyAuthor(ctx context.Context, e events.Event, notifyType domain.NotificationType, title, message string) {
	authorID := e.Article.AuthorID
	if authorID == "" || (e.Actor != nil && e.Actor.ID == authorID) {
		return
	}
	articleID := e.Article.ID
	if _, err := s.Notify(ctx, authorID, notifyType, title, message, &articleID); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("topic", e.Topic).Str("user_id", authorID).Msg("failed to create notification")
	}
}

// Notify stores a notification and pushes it with the new unread count
func (s *NotificationService) Notify(ctx context.Context, userID string, notifyType domain.NotificationType, title, message string, articleID *string) (*domain.Notification, error) {
	n := &domain.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifyType,
		ArticleID: articleID,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	if s.pusher != nil {
		s.pusher.SendToUser(userID, &ws.Event{Type: ws.EventNotification, Payload: n})
		s.pushUnread(ctx, userID)
	}
	return n, nil
}

// List returns the caller's notifications, newest first
func (s *NotificationService) List(ctx context.Context, actor *domain.Actor, unreadOnly bool, page, perPage int) ([]*domain.Notification, *common.Meta, error) {
	if err := domain.Require(actor, domain.RoleUser); err != nil {
		return nil, nil, err
	}
	items, total, err := s.repo.ListByUser(ctx, actor.ID, unreadOnly, (page-1)*perPage, perPage)
	if err != nil {
		return nil, nil, err
	}
	return items, common.NewMeta(page, perPage, total), nil
}

// UnreadCount returns the caller's unread badge count
func (s *NotificationService) UnreadCount(ctx context.Context, actor *domain.Actor) (*domain.NotificationSummary, error) {
	if err := domain.Require(actor, domain.RoleUser); err != nil {
		return nil, err
	}
	count, err := s.repo.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &domain.NotificationSummary{TotalUnread: count}, nil
}

// MarkRead marks one of the caller's notifications read
func (s *NotificationService) MarkRead(ctx context.Context, actor *domain.Actor, id string) error {
	if err := domain.Require(actor, domain.RoleUser); err != nil {
		return err
	}
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil || n.UserID != actor.ID {
		return common.ErrNotificationNotFound
	}
	if err := s.repo.MarkRead(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrNotificationNotFound
		}
		return err
	}
	s.pushUnread(ctx, actor.ID)
	return nil
}

// MarkAllRead marks every notification of the caller read
func (s *NotificationService) MarkAllRead(ctx context.Context, actor *domain.Actor) error {
	if err := domain.Require(actor, domain.RoleUser); err != nil {
		return err
	}
	if err := s.repo.MarkAllRead(ctx, actor.ID); err != nil {
		return err
	}
	s.pushUnread(ctx, actor.ID)
	return nil
}

func (s *NotificationService) pushUnread(ctx context.Context, userID string) {
	if s.pusher == nil {
		return
	}
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return
	}
	s.pusher.SendToUser(userID, &ws.Event{Type: ws.EventUnreadCount, Payload: domain.NotificationSummary{TotalUnread: count}})
}

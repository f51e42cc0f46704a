package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nabaa/newsroom/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSlugConflict wraps a duplicate key raised by the article row itself (its slug index),
// as opposed to one raised by an appended revision or history row
var ErrSlugConflict = errors.New("article slug conflict")

// ArticleChange is what a mutation appends alongside the article row
type ArticleChange struct {
	Revision *domain.ArticleRevision
	History  *domain.WorkflowHistory
}

// MutateFunc edits the locked article in place and returns the rows to append.
// Returning a nil change (or nil fields) saves the article only.
type MutateFunc func(article *domain.Article) (*ArticleChange, error)

// PublishedQuery narrows public listings
type PublishedQuery struct {
	CategoryID string
	Featured   bool
	Breaking   bool
}

// ArticleRepository article data access
type ArticleRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Article, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Article, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Article, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	List(ctx context.Context, filter domain.ArticleFilter, offset, limit int) ([]*domain.Article, int64, error)
	ListPublished(ctx context.Context, q PublishedQuery, offset, limit int) ([]*domain.Article, int64, error)
	ListRelated(ctx context.Context, article *domain.Article, limit int) ([]*domain.Article, error)
	SearchPublished(ctx context.Context, query string, offset, limit int) ([]*domain.Article, int64, error)
	ListDueScheduled(ctx context.Context, now time.Time, limit int) ([]*domain.Article, error)
	ListUpdatedBetween(ctx context.Context, from, to time.Time) ([]*domain.Article, error)
	ListAllPublished(ctx context.Context) ([]*domain.Article, error)
	CountByStatus(ctx context.Context) (map[domain.ArticleStatus]int64, error)

	CreateWithRevision(ctx context.Context, article *domain.Article, revision *domain.ArticleRevision, tags ...TagName) error
	Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Article, error)
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	var article domain.Article
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) FindBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	var article domain.Article
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&article).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &article, nil
}

// FindByIDs keeps the order of ids
func (r *articleRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Article, error) {
	if len(ids) == 0 {
		return []*domain.Article{}, nil
	}
	var rows []*domain.Article
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Article, len(rows))
	for _, a := range rows {
		byID[a.ID] = a
	}
	ordered := make([]*domain.Article, 0, len(rows))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			ordered = append(ordered, a)
		}
	}
	return ordered, nil
}

func (r *articleRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Article{}).Where("slug = ?", slug)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *articleRepository) List(ctx context.Context, filter domain.ArticleFilter, offset, limit int) ([]*domain.Article, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Article{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Featured != nil {
		query = query.Where("is_featured = ?", *filter.Featured)
	}
	if filter.Breaking != nil {
		query = query.Where("is_breaking = ?", *filter.Breaking)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + s + "%"
		query = query.Where("title LIKE ? OR excerpt LIKE ?", like, like)
	}

	return r.page(query, "created_at DESC", offset, limit)
}

func (r *articleRepository) ListPublished(ctx context.Context, q PublishedQuery, offset, limit int) ([]*domain.Article, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Article{}).
		Where("status = ?", domain.StatusPublished)

	if q.CategoryID != "" {
		query = query.Where("category_id = ?", q.CategoryID)
	}
	if q.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if q.Breaking {
		query = query.Where("is_breaking = ?", true)
	}

	return r.page(query, "published_at DESC", offset, limit)
}

// ListRelated returns other published articles of the same category
func (r *articleRepository) ListRelated(ctx context.Context, article *domain.Article, limit int) ([]*domain.Article, error) {
	var articles []*domain.Article
	query := r.db.WithContext(ctx).
		Where("status = ?", domain.StatusPublished).
		Where("id <> ?", article.ID)
	if article.CategoryID != nil {
		query = query.Where("category_id = ?", *article.CategoryID)
	}
	err := query.Order("published_at DESC").Limit(limit).Find(&articles).Error
	return articles, err
}

func (r *articleRepository) SearchPublished(ctx context.Context, q string, offset, limit int) ([]*domain.Article, int64, error) {
	like := "%" + strings.TrimSpace(q) + "%"
	query := r.db.WithContext(ctx).Model(&domain.Article{}).
		Where("status = ?", domain.StatusPublished).
		Where("title LIKE ? OR subtitle LIKE ? OR excerpt LIKE ? OR content LIKE ?", like, like, like, like)

	return r.page(query, "published_at DESC", offset, limit)
}

func (r *articleRepository) ListDueScheduled(ctx context.Context, now time.Time, limit int) ([]*domain.Article, error) {
	var articles []*domain.Article
	err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= ?", domain.StatusScheduled, now).
		Order("scheduled_at ASC").
		Limit(limit).
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) ListUpdatedBetween(ctx context.Context, from, to time.Time) ([]*domain.Article, error) {
	var articles []*domain.Article
	err := r.db.WithContext(ctx).
		Where("updated_at >= ? AND updated_at < ?", from, to).
		Order("updated_at DESC").
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) ListAllPublished(ctx context.Context) ([]*domain.Article, error) {
	var articles []*domain.Article
	err := r.db.WithContext(ctx).
		Where("status = ?", domain.StatusPublished).
		Order("published_at DESC").
		Find(&articles).Error
	return articles, err
}

func (r *articleRepository) CountByStatus(ctx context.Context) (map[domain.ArticleStatus]int64, error) {
	var rows []struct {
		Status domain.ArticleStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&domain.Article{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.ArticleStatus]int64, len(domain.AllStatuses))
	for _, st := range domain.AllStatuses {
		counts[st] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CreateWithRevision inserts the article, its first revision and its tags atomically
func (r *articleRepository) CreateWithRevision(ctx context.Context, article *domain.Article, revision *domain.ArticleRevision, tags ...TagName) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(article).Error; err != nil {
			return slugConflict(err)
		}
		if revision != nil {
			revision.ArticleID = article.ID
			revision.RevisionNumber = article.CurrentRevision
			if err := tx.Create(revision).Error; err != nil {
				return err
			}
		}
		for _, name := range tags {
			if _, err := attachTag(tx, article.ID, name); err != nil {
				return fmt.Errorf("attach tag %q: %w", name.Name, err)
			}
		}
		return nil
	})
}

// Mutate loads the article under a row lock, applies fn and persists the article together
// with any revision or history row in one transaction. Revision numbers are allocated as
// MAX(revision_number)+1 inside the transaction and mirrored into current_revision.
// Returns gorm.ErrRecordNotFound when the article does not exist.
func (r *articleRepository) Mutate(ctx context.Context, id string, fn MutateFunc) (*domain.Article, error) {
	var result *domain.Article
	var err error
	for attempt := 0; attempt < maxSequenceAttempts; attempt++ {
		result, err = r.mutateOnce(ctx, id, fn)
		if !errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrSlugConflict) {
			return result, err
		}
	}
	return nil, fmt.Errorf("allocate revision number: %w", err)
}

func (r *articleRepository) mutateOnce(ctx context.Context, id string, fn MutateFunc) (*domain.Article, error) {
	var article domain.Article
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&article).Error; err != nil {
			return err
		}

		change, err := fn(&article)
		if err != nil {
			return err
		}
		if change == nil {
			change = &ArticleChange{}
		}

		if change.Revision != nil {
			next, err := nextRevisionNumber(tx, article.ID)
			if err != nil {
				return err
			}
			change.Revision.ArticleID = article.ID
			change.Revision.RevisionNumber = next
			article.CurrentRevision = next
		}

		if err := tx.Save(&article).Error; err != nil {
			return slugConflict(err)
		}
		if change.Revision != nil {
			if err := tx.Create(change.Revision).Error; err != nil {
				return err
			}
		}
		if change.History != nil {
			last, err := maxSeq(tx, &domain.WorkflowHistory{}, "seq", article.ID)
			if err != nil {
				return err
			}
			change.History.ArticleID = article.ID
			change.History.Seq = last + 1
			if err := tx.Create(change.History).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func slugConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %w", ErrSlugConflict, err)
	}
	return err
}

func nextRevisionNumber(tx *gorm.DB, articleID string) (int, error) {
	last, err := maxSeq(tx, &domain.ArticleRevision{}, "revision_number", articleID)
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

// Delete removes the article and its tag links. Revisions and workflow history are kept.
func (r *articleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var links []domain.ArticleTag
		if err := tx.Where("article_id = ?", id).Find(&links).Error; err != nil {
			return err
		}
		for _, link := range links {
			if err := tx.Model(&domain.Tag{}).
				Where("id = ? AND usage_count > 0", link.TagID).
				UpdateColumn("usage_count", gorm.Expr("usage_count - 1")).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("article_id = ?", id).Delete(&domain.ArticleTag{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Article{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *articleRepository) IncrementViews(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&domain.Article{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

func (r *articleRepository) page(query *gorm.DB, order string, offset, limit int) ([]*domain.Article, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []*domain.Article
	if err := query.Order(order).Offset(offset).Limit(limit).Find(&articles).Error; err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type ArticleRepositorySuite struct {
	suite.Suite
	db        *gorm.DB
	repo      ArticleRepository
	revisions RevisionRepository
	workflow  WorkflowRepository
	ctx       context.Context
}

func (s *ArticleRepositorySuite) SetupTest() {
	s.db = openTestDB(s.T())
	s.repo = NewArticleRepository(s.db)
	s.revisions = NewRevisionRepository(s.db)
	s.workflow = NewWorkflowRepository(s.db)
	s.ctx = context.Background()
}

func (s *ArticleRepositorySuite) create(title, slug string, status domain.ArticleStatus) *domain.Article {
	a := newArticle(title, slug, "author-1", status)
	s.Require().NoError(s.repo.CreateWithRevision(s.ctx, a, firstRevision(a)))
	return a
}

func (s *ArticleRepositorySuite) TestCreateWithRevision() {
	a := s.create("A", "a", domain.StatusDraft)

	revs, err := s.revisions.ListByArticle(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Require().Len(revs, 1)
	s.Equal(1, revs[0].RevisionNumber)
	s.Equal("A", revs[0].Title)

	found, err := s.repo.FindBySlug(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal(a.ID, found.ID)
}

func (s *ArticleRepositorySuite) TestMutateAllocatesSequentialRevisions() {
	a := s.create("A", "a", domain.StatusDraft)

	for _, title := range []string{"B", "C"} {
		title := title
		updated, err := s.repo.Mutate(s.ctx, a.ID, func(article *domain.Article) (*ArticleChange, error) {
			article.Title = title
			return &ArticleChange{Revision: &domain.ArticleRevision{
				ID: uuid.New().String(), Title: title, Content: article.Content, EditedBy: "editor-1",
			}}, nil
		})
		s.Require().NoError(err)
		s.Equal(title, updated.Title)
	}

	max, err := maxSeq(s.db, &domain.ArticleRevision{}, "revision_number", a.ID)
	s.Require().NoError(err)
	s.Equal(3, max)

	reloaded, err := s.repo.FindByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(max, reloaded.CurrentRevision)
	s.Equal("C", reloaded.Title)

	second, err := s.revisions.FindByNumber(s.ctx, a.ID, 2)
	s.Require().NoError(err)
	s.Equal("B", second.Title)
}

func (s *ArticleRepositorySuite) TestMutateWithHistory() {
	a := s.create("A", "a", domain.StatusDraft)

	_, err := s.repo.Mutate(s.ctx, a.ID, func(article *domain.Article) (*ArticleChange, error) {
		from := article.Status
		article.Status = domain.StatusReview
		return &ArticleChange{History: &domain.WorkflowHistory{
			ID: uuid.New().String(), FromStatus: from, ToStatus: domain.StatusReview,
			UserID: "editor-1", CreatedAt: time.Now(),
		}}, nil
	})
	s.Require().NoError(err)

	history, err := s.workflow.ListByArticle(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Equal(domain.StatusDraft, history[0].FromStatus)
	s.Equal(domain.StatusReview, history[0].ToStatus)
}

func (s *ArticleRepositorySuite) TestHistorySeqOrdersEqualTimestamps() {
	a := s.create("A", "a", domain.StatusDraft)
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	for _, to := range []domain.ArticleStatus{domain.StatusReview, domain.StatusApproved, domain.StatusPublished} {
		to := to
		_, err := s.repo.Mutate(s.ctx, a.ID, func(article *domain.Article) (*ArticleChange, error) {
			from := article.Status
			article.Status = to
			return &ArticleChange{History: &domain.WorkflowHistory{
				ID: uuid.New().String(), FromStatus: from, ToStatus: to, UserID: "editor-1", CreatedAt: at,
			}}, nil
		})
		s.Require().NoError(err)
	}

	history, err := s.workflow.ListByArticle(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 3)
	s.Equal(domain.StatusPublished, history[0].ToStatus)
	s.Equal(3, history[0].Seq)
	s.Equal(domain.StatusReview, history[2].ToStatus)
	s.Equal(1, history[2].Seq)

	between, err := s.workflow.ListBetween(s.ctx, at, at.Add(time.Second))
	s.Require().NoError(err)
	s.Require().Len(between, 3)
	s.Equal(domain.StatusReview, between[0].ToStatus)
}

func (s *ArticleRepositorySuite) TestMutateRollsBackOnError() {
	a := s.create("A", "a", domain.StatusDraft)
	boom := errors.New("boom")

	_, err := s.repo.Mutate(s.ctx, a.ID, func(article *domain.Article) (*ArticleChange, error) {
		article.Title = "changed"
		return nil, boom
	})
	s.ErrorIs(err, boom)

	reloaded, _ := s.repo.FindByID(s.ctx, a.ID)
	s.Equal("A", reloaded.Title)
}

func (s *ArticleRepositorySuite) TestMutateSlugCollisionIsNotRetried() {
	s.create("B", "b", domain.StatusDraft)
	a := s.create("A", "a", domain.StatusDraft)

	calls := 0
	_, err := s.repo.Mutate(s.ctx, a.ID, func(article *domain.Article) (*ArticleChange, error) {
		calls++
		article.Slug = "b"
		return &ArticleChange{Revision: &domain.ArticleRevision{
			ID: uuid.New().String(), Title: article.Title, Content: article.Content, EditedBy: "editor-1",
		}}, nil
	})
	s.ErrorIs(err, ErrSlugConflict)
	s.ErrorIs(err, gorm.ErrDuplicatedKey)
	s.Equal(1, calls)

	revs, err := s.revisions.ListByArticle(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Len(revs, 1)
}

func (s *ArticleRepositorySuite) TestCreateWithTakenSlug() {
	s.create("A", "a", domain.StatusDraft)
	dup := newArticle("A2", "a", "author-1", domain.StatusDraft)
	err := s.repo.CreateWithRevision(s.ctx, dup, firstRevision(dup))
	s.ErrorIs(err, ErrSlugConflict)
}

func (s *ArticleRepositorySuite) TestMutateMissingArticle() {
	_, err := s.repo.Mutate(s.ctx, "missing", func(*domain.Article) (*ArticleChange, error) { return nil, nil })
	s.ErrorIs(err, gorm.ErrRecordNotFound)
}

func (s *ArticleRepositorySuite) TestListFiltersAndCounts() {
	s.create("first", "first", domain.StatusDraft)
	s.create("second", "second", domain.StatusPublished)
	other := newArticle("third", "third", "author-2", domain.StatusPublished)
	s.Require().NoError(s.repo.CreateWithRevision(s.ctx, other, firstRevision(other)))

	items, total, err := s.repo.List(s.ctx, domain.ArticleFilter{Status: domain.StatusPublished}, 0, 10)
	s.Require().NoError(err)
	s.EqualValues(2, total)
	s.Len(items, 2)

	items, total, err = s.repo.List(s.ctx, domain.ArticleFilter{AuthorID: "author-2"}, 0, 10)
	s.Require().NoError(err)
	s.EqualValues(1, total)
	s.Equal("third", items[0].Title)

	_, total, err = s.repo.List(s.ctx, domain.ArticleFilter{Search: "sec"}, 0, 10)
	s.Require().NoError(err)
	s.EqualValues(1, total)

	counts, err := s.repo.CountByStatus(s.ctx)
	s.Require().NoError(err)
	s.EqualValues(1, counts[domain.StatusDraft])
	s.EqualValues(2, counts[domain.StatusPublished])
	s.EqualValues(0, counts[domain.StatusKilled])

	exists, err := s.repo.SlugExists(s.ctx, "first", "")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *ArticleRepositorySuite) TestListDueScheduled() {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	due := newArticle("due", "due", "author-1", domain.StatusScheduled)
	due.ScheduledAt = &past
	later := newArticle("later", "later", "author-1", domain.StatusScheduled)
	later.ScheduledAt = &future
	s.Require().NoError(s.repo.CreateWithRevision(s.ctx, due, nil))
	s.Require().NoError(s.repo.CreateWithRevision(s.ctx, later, nil))

	items, err := s.repo.ListDueScheduled(s.ctx, time.Now(), 10)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal(due.ID, items[0].ID)
}

func (s *ArticleRepositorySuite) TestCreateWithTagsCommitsTogether() {
	a := newArticle("A", "a", "author-1", domain.StatusDraft)
	s.Require().NoError(s.repo.CreateWithRevision(s.ctx, a, firstRevision(a),
		TagName{Name: "سياسة", Slug: "syasa"}, TagName{Name: "اقتصاد", Slug: "aqtsad"}))

	tags, err := NewTagRepository(s.db).ListByArticle(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Len(tags, 2)
}

func (s *ArticleRepositorySuite) TestCreateRollsBackWhenTagFails() {
	s.Require().NoError(s.db.Migrator().DropTable(&domain.ArticleTag{}))

	a := newArticle("A", "a", "author-1", domain.StatusDraft)
	err := s.repo.CreateWithRevision(s.ctx, a, firstRevision(a), TagName{Name: "سياسة", Slug: "syasa"})
	s.Require().Error(err)

	found, err := s.repo.FindByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Nil(found)

	revs, err := s.revisions.ListByArticle(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Empty(revs)
}

func (s *ArticleRepositorySuite) TestDeleteKeepsAuditRows() {
	a := s.create("A", "a", domain.StatusDraft)
	tags := NewTagRepository(s.db)
	tag, err := tags.Attach(s.ctx, a.ID, "سياسة", "syasa")
	s.Require().NoError(err)

	s.Require().NoError(s.repo.Delete(s.ctx, a.ID))

	found, err := s.repo.FindByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Nil(found)

	revs, err := s.revisions.ListByArticle(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Len(revs, 1)

	reloaded, err := tags.FindByID(s.ctx, tag.ID)
	s.Require().NoError(err)
	s.Equal(0, reloaded.UsageCount)

	s.ErrorIs(s.repo.Delete(s.ctx, a.ID), gorm.ErrRecordNotFound)
}

func TestArticleRepositorySuite(t *testing.T) {
	suite.Run(t, new(ArticleRepositorySuite))
}

func TestFindByIDsKeepsOrder(t *testing.T) {
	db := openTestDB(t)
	repo := NewArticleRepository(db)
	ctx := context.Background()

	a := newArticle("a", "a", "u", domain.StatusPublished)
	b := newArticle("b", "b", "u", domain.StatusPublished)
	require.NoError(t, repo.CreateWithRevision(ctx, a, nil))
	require.NoError(t, repo.CreateWithRevision(ctx, b, nil))

	items, err := repo.FindByIDs(ctx, []string{b.ID, "gone", a.ID})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, b.ID, items[0].ID)
	assert.Equal(t, a.ID, items[1].ID)
}

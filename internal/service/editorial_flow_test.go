package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/events"
	"github.com/nabaa/newsroom/internal/repository"
	"github.com/stretchr/testify/suite"
)

type EditorialFlowSuite struct {
	suite.Suite
	ctx       context.Context
	repos     *repos
	bus       *events.Bus
	articles  ArticleService
	workflow  WorkflowService
	revisions RevisionService
	comments  EditorialService
}

func (s *EditorialFlowSuite) SetupTest() {
	s.ctx = context.Background()
	s.repos = newRepos(s.T())
	s.bus = events.NewBus(false)

	s.articles = NewArticleService(s.repos.articles, s.repos.categories, s.repos.tags, nil, s.bus)
	s.workflow = NewWorkflowService(s.repos.articles, s.repos.history, nil, s.bus)
	s.revisions = NewRevisionService(s.repos.articles, s.repos.revisions, nil, s.bus)
	s.comments = NewEditorialService(s.repos.articles, s.repos.comments, s.bus)
	s.setClock(newStepClock().Now)
}

// setClock replaces the clock of every service under test
func (s *EditorialFlowSuite) setClock(now func() time.Time) {
	s.articles.(*articleService).now = now
	s.workflow.(*workflowService).now = now
	s.revisions.(*revisionService).now = now
	s.comments.(*editorialService).now = now
}

func TestEditorialFlowSuite(t *testing.T) {
	suite.Run(t, new(EditorialFlowSuite))
}

func (s *EditorialFlowSuite) create(actor *domain.Actor, title string) *domain.Article {
	a, err := s.articles.Create(s.ctx, actor, &domain.CreateArticleRequest{Title: title, Content: "<p>" + title + " محتوى</p>"})
	s.Require().NoError(err)
	return a
}

func (s *EditorialFlowSuite) assertRevisionInvariant(articleID string) {
	article, err := s.repos.articles.FindByID(s.ctx, articleID)
	s.Require().NoError(err)
	revs, err := s.repos.revisions.ListByArticle(s.ctx, articleID)
	s.Require().NoError(err)
	s.Require().NotEmpty(revs)

	s.Equal(article.CurrentRevision, revs[0].RevisionNumber)
	for i, r := range revs {
		s.Equal(len(revs)-i, r.RevisionNumber, "revision numbers must be contiguous from 1")
	}
}

func (s *EditorialFlowSuite) TestCreateWritesRevisionOne() {
	a := s.create(writer, "A")

	revs, err := s.revisions.List(s.ctx, writer, a.ID)
	s.Require().NoError(err)
	s.Require().Len(revs, 1)
	s.Equal(1, revs[0].RevisionNumber)
	s.Equal("A", revs[0].Title)
	s.Equal(domain.EditReasonInitial, *revs[0].EditReason)
	s.Equal(1, a.CurrentRevision)
	s.Equal(domain.StatusDraft, a.Status)
}

func (s *EditorialFlowSuite) TestCreateAttachesTags() {
	a, err := s.articles.Create(s.ctx, writer, &domain.CreateArticleRequest{
		Title: "A", Content: "<p>A</p>", Tags: []string{" سياسة ", "اقتصاد"},
	})
	s.Require().NoError(err)

	tags, err := s.articles.ListTags(s.ctx, writer, a.ID)
	s.Require().NoError(err)
	s.Require().Len(tags, 2)
	s.Equal("اقتصاد", tags[0].Name)
	s.Equal("سياسة", tags[1].Name)
}

func (s *EditorialFlowSuite) TestCreateWithBlankTagWritesNothing() {
	_, err := s.articles.Create(s.ctx, writer, &domain.CreateArticleRequest{
		Title: "A", Content: "<p>A</p>", Tags: []string{"سياسة", "  "},
	})
	s.ErrorIs(err, common.ErrInvalidInput)

	items, total, err := s.repos.articles.List(s.ctx, domain.ArticleFilter{}, 0, 10)
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(items)
}

func (s *EditorialFlowSuite) TestUpdateThenRestoreAppendsRevision() {
	a := s.create(writer, "A")

	updated, err := s.articles.Update(s.ctx, writer, a.ID, &domain.UpdateArticleRequest{Title: strPtr("B")})
	s.Require().NoError(err)
	s.Equal(2, updated.CurrentRevision)
	s.Equal(writer.ID, *updated.LastEditedBy)

	rev2, err := s.revisions.Get(s.ctx, writer, a.ID, 2)
	s.Require().NoError(err)
	s.Equal("B", rev2.Title)

	restored, err := s.revisions.Restore(s.ctx, editor, a.ID, 1)
	s.Require().NoError(err)
	s.Equal("A", restored.Title)
	s.Equal(3, restored.CurrentRevision)
	s.Equal(editor.ID, *restored.LastEditedBy)

	rev3, err := s.revisions.Get(s.ctx, writer, a.ID, 3)
	s.Require().NoError(err)
	s.Equal("A", rev3.Title)
	s.Equal("استعادة النسخة 1", *rev3.EditReason)

	rev1, err := s.revisions.Get(s.ctx, writer, a.ID, 1)
	s.Require().NoError(err)
	s.Equal("A", rev1.Title)
	s.assertRevisionInvariant(a.ID)
}

func (s *EditorialFlowSuite) TestFlagOnlyUpdateKeepsRevision() {
	a := s.create(writer, "A")
	featured := true

	updated, err := s.articles.Update(s.ctx, editor, a.ID, &domain.UpdateArticleRequest{IsFeatured: &featured})
	s.Require().NoError(err)
	s.True(updated.IsFeatured)
	s.Equal(1, updated.CurrentRevision)
	s.assertRevisionInvariant(a.ID)
}

func (s *EditorialFlowSuite) TestWriterCannotUpdateOthersArticle() {
	a := s.create(writer, "A")

	_, err := s.articles.Update(s.ctx, writer2, a.ID, &domain.UpdateArticleRequest{Title: strPtr("X")})
	s.ErrorIs(err, common.ErrNotOwner)

	current, err := s.repos.articles.FindByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal("A", current.Title)
	s.Equal(1, current.CurrentRevision)
}

func (s *EditorialFlowSuite) TestEditorUpdatesAnyArticle() {
	a := s.create(writer, "A")
	_, err := s.articles.Update(s.ctx, editor, a.ID, &domain.UpdateArticleRequest{Content: strPtr("<p>نص جديد</p>")})
	s.NoError(err)
	s.assertRevisionInvariant(a.ID)
}

func (s *EditorialFlowSuite) TestWriterCannotChangeStatus() {
	a := s.create(writer2, "A")

	_, err := s.workflow.ChangeStatus(s.ctx, writer, a.ID, domain.StatusReview, nil)
	s.ErrorIs(err, common.ErrForbidden)

	var count int64
	s.Require().NoError(s.repos.db.Model(&domain.WorkflowHistory{}).Where("article_id = ?", a.ID).Count(&count).Error)
	s.Zero(count)
}

func (s *EditorialFlowSuite) TestUnauthenticatedCallsFail() {
	_, err := s.workflow.ChangeStatus(s.ctx, nil, "x", domain.StatusReview, nil)
	s.ErrorIs(err, common.ErrUnauthorized)
	_, err = s.revisions.List(s.ctx, nil, "x")
	s.ErrorIs(err, common.ErrUnauthorized)
}

func (s *EditorialFlowSuite) TestEveryTransitionWritesOneHistoryRow() {
	a := s.create(writer, "A")
	steps := []domain.ArticleStatus{domain.StatusReview, domain.StatusApproved, domain.StatusKilled, domain.StatusDraft}

	for i, to := range steps {
		updated, err := s.workflow.ChangeStatus(s.ctx, editor, a.ID, to, strPtr("ملاحظة"))
		s.Require().NoError(err)
		s.Equal(to, updated.Status)

		history, err := s.workflow.History(s.ctx, writer, a.ID)
		s.Require().NoError(err)
		s.Require().Len(history, i+1)
	}

	history, err := s.workflow.History(s.ctx, editor, a.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusKilled, history[0].FromStatus)
	s.Equal(domain.StatusDraft, history[0].ToStatus)
	s.Equal(domain.StatusDraft, history[len(history)-1].FromStatus)
	s.Equal(domain.StatusReview, history[len(history)-1].ToStatus)
	s.Equal(editor.ID, history[0].UserID)
}

func (s *EditorialFlowSuite) TestInvalidStatusAndMissingArticle() {
	a := s.create(writer, "A")
	_, err := s.workflow.ChangeStatus(s.ctx, editor, a.ID, domain.ArticleStatus("bogus"), nil)
	s.ErrorIs(err, common.ErrInvalidStatus)

	_, err = s.workflow.ChangeStatus(s.ctx, editor, "missing", domain.StatusReview, nil)
	s.ErrorIs(err, common.ErrArticleNotFound)
}

func (s *EditorialFlowSuite) TestPublishSetsPublishedAt() {
	a := s.create(writer, "A")

	published, err := s.workflow.Publish(s.ctx, editor, a.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPublished, published.Status)
	s.NotNil(published.PublishedAt)

	history, err := s.workflow.History(s.ctx, editor, a.ID)
	s.Require().NoError(err)
	s.Equal(domain.WorkflowCommentPublish, *history[0].Comment)
}

func (s *EditorialFlowSuite) TestScheduledArticlesPublishWhenDue() {
	a := s.create(writer, "A")
	b := s.create(writer, "B")

	_, err := s.workflow.Schedule(s.ctx, editor, a.ID, fixedNow.Add(-time.Minute), nil)
	s.Require().NoError(err)
	_, err = s.workflow.Schedule(s.ctx, editor, b.ID, fixedNow.Add(time.Hour), nil)
	s.Require().NoError(err)

	n, err := s.workflow.PublishDue(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, n)

	due, err := s.repos.articles.FindByID(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusPublished, due.Status)

	later, err := s.repos.articles.FindByID(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusScheduled, later.Status)

	history, err := s.workflow.History(s.ctx, editor, a.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Equal(domain.SystemActor.ID, history[0].UserID)
	s.Require().NotNil(history[0].Comment)
	s.Equal(domain.WorkflowCommentScheduledPublish, *history[0].Comment)
	s.Equal(editor.ID, history[1].UserID)
}

func (s *EditorialFlowSuite) TestHistoryNewestFirstWithEqualTimestamps() {
	s.setClock(func() time.Time { return fixedNow })
	a := s.create(writer, "A")

	_, err := s.workflow.ChangeStatus(s.ctx, editor, a.ID, domain.StatusReview, nil)
	s.Require().NoError(err)
	approved, err := s.workflow.ChangeStatus(s.ctx, editor, a.ID, domain.StatusApproved, nil)
	s.Require().NoError(err)

	history, err := s.workflow.History(s.ctx, editor, a.ID)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.True(history[0].CreatedAt.Equal(history[1].CreatedAt))
	s.Equal(approved.Status, history[0].ToStatus)
	s.Equal(domain.StatusReview, history[0].FromStatus)
	s.Equal(2, history[0].Seq)
	s.Equal(1, history[1].Seq)
}

func (s *EditorialFlowSuite) TestCommentsNewestFirstWithEqualTimestamps() {
	s.setClock(func() time.Time { return fixedNow })
	a := s.create(writer, "A")

	for _, content := range []string{"1", "2", "3"} {
		_, err := s.comments.Add(s.ctx, editor, a.ID, &domain.AddEditorialCommentRequest{Content: content})
		s.Require().NoError(err)
	}

	list, err := s.comments.List(s.ctx, writer, a.ID, nil)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal([]string{"3", "2", "1"}, []string{list[0].Content, list[1].Content, list[2].Content})
}

func (s *EditorialFlowSuite) TestCreateRevisionStoresChanges() {
	a := s.create(writer, "A")

	rev, err := s.revisions.Create(s.ctx, writer, a.ID, &domain.CreateRevisionRequest{
		Changes:    map[string]interface{}{"title": "A"},
		EditReason: "مراجعة لغوية",
	})
	s.Require().NoError(err)
	s.Equal(2, rev.RevisionNumber)
	s.JSONEq(`{"title":"A"}`, string(rev.Changes))
	s.assertRevisionInvariant(a.ID)

	_, err = s.revisions.Create(s.ctx, writer2, a.ID, &domain.CreateRevisionRequest{EditReason: "x"})
	s.ErrorIs(err, common.ErrNotOwner)
}

func (s *EditorialFlowSuite) TestRestoreRequiresEditorAndExistingRevision() {
	a := s.create(writer, "A")

	_, err := s.revisions.Restore(s.ctx, writer, a.ID, 1)
	s.ErrorIs(err, common.ErrForbidden)

	_, err = s.revisions.Restore(s.ctx, editor, a.ID, 9)
	s.ErrorIs(err, common.ErrRevisionNotFound)

	_, err = s.revisions.Restore(s.ctx, editor, "missing", 1)
	s.ErrorIs(err, common.ErrArticleNotFound)
}

func (s *EditorialFlowSuite) TestCommentsResolveOnce() {
	a := s.create(writer, "A")

	_, err := s.comments.Add(s.ctx, writer, a.ID, &domain.AddEditorialCommentRequest{Content: "x"})
	s.ErrorIs(err, common.ErrForbidden)

	c, err := s.comments.Add(s.ctx, editor, a.ID, &domain.AddEditorialCommentRequest{BlockID: strPtr("b1"), Content: "أعد صياغة الفقرة"})
	s.Require().NoError(err)
	s.False(c.IsResolved)

	resolved, err := s.comments.Resolve(s.ctx, editor, c.ID)
	s.Require().NoError(err)
	s.True(resolved.IsResolved)
	s.Equal(editor.ID, *resolved.ResolvedBy)
	firstAt := *resolved.ResolvedAt

	again, err := s.comments.Resolve(s.ctx, admin, c.ID)
	s.Require().NoError(err)
	s.Equal(editor.ID, *again.ResolvedBy)
	s.True(firstAt.Equal(*again.ResolvedAt))

	reopened, err := s.comments.Unresolve(s.ctx, admin, c.ID)
	s.Require().NoError(err)
	s.False(reopened.IsResolved)
	s.Nil(reopened.ResolvedBy)

	_, err = s.comments.Resolve(s.ctx, editor, "missing")
	s.ErrorIs(err, common.ErrCommentNotFound)
	_, err = s.comments.Unresolve(s.ctx, editor, "missing")
	s.ErrorIs(err, common.ErrCommentNotFound)
}

func (s *EditorialFlowSuite) TestConcurrentResolveReportsStoredResolver() {
	a := s.create(writer, "A")
	c, err := s.comments.Add(s.ctx, editor, a.ID, &domain.AddEditorialCommentRequest{Content: "راجع المصدر"})
	s.Require().NoError(err)

	var resolvedEvents int
	var mu sync.Mutex
	s.bus.Subscribe("resolved", events.TopicCommentResolved, func(context.Context, events.Event) {
		mu.Lock()
		resolvedEvents++
		mu.Unlock()
	})

	callers := []*domain.Actor{editor, admin, editor, admin}
	results := make([]*domain.EditorialComment, len(callers))
	errs := make([]error, len(callers))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, actor := range callers {
		wg.Add(1)
		go func(i int, actor *domain.Actor) {
			defer wg.Done()
			<-start
			results[i], errs[i] = s.comments.Resolve(s.ctx, actor, c.ID)
		}(i, actor)
	}
	close(start)
	wg.Wait()
	s.bus.Wait()

	stored, err := s.repos.comments.FindByID(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Require().True(stored.IsResolved)
	for i := range callers {
		s.Require().NoError(errs[i])
		s.Equal(*stored.ResolvedBy, *results[i].ResolvedBy)
		s.True(stored.ResolvedAt.Equal(*results[i].ResolvedAt))
	}
	s.Equal(1, resolvedEvents)
}

func (s *EditorialFlowSuite) TestCommentsFilterByBlock() {
	a := s.create(writer, "A")
	_, err := s.comments.Add(s.ctx, editor, a.ID, &domain.AddEditorialCommentRequest{BlockID: strPtr("b1"), Content: "1"})
	s.Require().NoError(err)
	_, err = s.comments.Add(s.ctx, editor, a.ID, &domain.AddEditorialCommentRequest{Content: "2"})
	s.Require().NoError(err)

	all, err := s.comments.List(s.ctx, writer, a.ID, nil)
	s.Require().NoError(err)
	s.Len(all, 2)

	block, err := s.comments.List(s.ctx, writer, a.ID, strPtr("b1"))
	s.Require().NoError(err)
	s.Require().Len(block, 1)
	s.Equal("1", block[0].Content)

	_, err = s.comments.Add(s.ctx, editor, "missing", &domain.AddEditorialCommentRequest{Content: "x"})
	s.ErrorIs(err, common.ErrArticleNotFound)
}

func (s *EditorialFlowSuite) TestSlugCollisionGetsSuffix() {
	first := s.create(writer, "خبر عاجل")
	second := s.create(writer, "خبر عاجل")

	s.NotEqual(first.Slug, second.Slug)
	s.Contains(second.Slug, first.Slug+"-")
}

// staleSlugCheck answers every availability check with "free", as a check that ran
// before a concurrent writer took the slug would
type staleSlugCheck struct {
	repository.ArticleRepository
}

func (staleSlugCheck) SlugExists(context.Context, string, string) (bool, error) {
	return false, nil
}

func (s *EditorialFlowSuite) TestSlugTakenBetweenCheckAndSave() {
	first := s.create(writer, "A")
	second := s.create(writer, "B")

	articles := NewArticleService(staleSlugCheck{s.repos.articles}, s.repos.categories, s.repos.tags, nil, s.bus)
	_, err := articles.Update(s.ctx, writer, second.ID, &domain.UpdateArticleRequest{Slug: strPtr(first.Slug)})
	s.ErrorIs(err, common.ErrSlugTaken)
	s.NotErrorIs(err, common.ErrRevisionRace)

	reloaded, err := s.repos.articles.FindByID(s.ctx, second.ID)
	s.Require().NoError(err)
	s.Equal(1, reloaded.CurrentRevision)
	s.assertRevisionInvariant(second.ID)
}

func (s *EditorialFlowSuite) TestWriterListsOnlyOwnArticles() {
	s.create(writer, "A")
	s.create(writer2, "B")

	items, meta, err := s.articles.List(s.ctx, writer, domain.ArticleFilter{AuthorID: writer2.ID}, 1, 20)
	s.Require().NoError(err)
	s.Require().Len(items, 1)
	s.Equal(writer.ID, items[0].AuthorID)
	s.EqualValues(1, meta.Total)

	items, _, err = s.articles.List(s.ctx, editor, domain.ArticleFilter{}, 1, 20)
	s.Require().NoError(err)
	s.Len(items, 2)
}

func (s *EditorialFlowSuite) TestDeleteRequiresEditorAndKeepsAudit() {
	a := s.create(writer, "A")
	s.ErrorIs(s.articles.Delete(s.ctx, writer, a.ID), common.ErrForbidden)
	s.Require().NoError(s.articles.Delete(s.ctx, editor, a.ID))

	_, err := s.articles.Get(s.ctx, editor, a.ID)
	s.ErrorIs(err, common.ErrArticleNotFound)

	var revs int64
	s.Require().NoError(s.repos.db.Model(&domain.ArticleRevision{}).Where("article_id = ?", a.ID).Count(&revs).Error)
	s.EqualValues(1, revs)
}

func (s *EditorialFlowSuite) TestPublicReadsOnlyPublished() {
	a := s.create(writer, "A")
	_, err := s.articles.GetPublished(s.ctx, a.Slug)
	s.ErrorIs(err, common.ErrArticleNotFound)

	_, err = s.workflow.Publish(s.ctx, editor, a.ID)
	s.Require().NoError(err)

	got, err := s.articles.GetPublished(s.ctx, a.Slug)
	s.Require().NoError(err)
	s.Equal(1, got.Views)

	items, meta, err := s.articles.ListPublished(s.ctx, domain.PublicArticleQuery{}, 1, 10)
	s.Require().NoError(err)
	s.Len(items, 1)
	s.EqualValues(1, meta.Total)
}

func (s *EditorialFlowSuite) TestStatusEventsReachSubscribers() {
	var got []events.Event
	s.bus.Subscribe("test", events.TopicStatusChanged, func(_ context.Context, e events.Event) {
		got = append(got, e)
	})
	a := s.create(writer, "A")

	_, err := s.workflow.ChangeStatus(s.ctx, editor, a.ID, domain.StatusReview, nil)
	s.Require().NoError(err)
	s.bus.Wait()

	s.Require().Len(got, 1)
	s.Equal(domain.StatusReview, got[0].History.ToStatus)
	s.Equal(a.ID, got[0].Article.ID)
}

package service

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/events"
	"github.com/nabaa/newsroom/internal/repository"
	"github.com/nabaa/newsroom/internal/ws"
	es "github.com/nabaa/newsroom/pkg/elasticsearch"
	"github.com/nabaa/newsroom/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// 1x1 transparent png
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

func TestMediaServiceUpload(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	store, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	svc := NewMediaService(repository.NewMediaRepository(r.db), store)

	media, err := svc.Upload(ctx, writer, &UploadInput{Filename: "pixel.png", Size: int64(len(pngPixel)), Body: bytes.NewReader(pngPixel)})
	require.NoError(t, err)
	assert.Equal(t, "image/png", media.MimeType)
	assert.Regexp(t, `^articles/\d{4}/\d{2}/pixel-[a-z0-9]{6}\.png$`, media.Key)
	assert.Equal(t, "/uploads/"+media.Key, media.URL)
	assert.EqualValues(t, len(pngPixel), media.Size)

	_, err = svc.Upload(ctx, writer, &UploadInput{Filename: "notes.txt", Size: 5, Body: bytes.NewReader([]byte("hello"))})
	assert.ErrorIs(t, err, common.ErrNotImage)

	_, err = svc.Upload(ctx, writer, &UploadInput{Filename: "big.png", Size: MaxImageSize + 1, Body: bytes.NewReader(pngPixel)})
	assert.ErrorIs(t, err, common.ErrFileTooLarge)

	_, err = svc.Upload(ctx, reader, &UploadInput{Filename: "pixel.png", Size: 1, Body: bytes.NewReader(pngPixel)})
	assert.ErrorIs(t, err, common.ErrForbidden)

	assert.ErrorIs(t, svc.Delete(ctx, writer2, media.ID), common.ErrNotOwner)
	assert.NoError(t, svc.Delete(ctx, editor, media.ID))
	assert.ErrorIs(t, svc.Delete(ctx, editor, media.ID), common.ErrMediaNotFound)
}

type recordingPusher struct {
	mu     sync.Mutex
	events map[string][]*ws.Event
}

func (p *recordingPusher) SendToUser(userID string, event *ws.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.events == nil {
		p.events = make(map[string][]*ws.Event)
	}
	p.events[userID] = append(p.events[userID], event)
}

func TestNotificationsFollowEditorialEvents(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	bus := events.NewBus(false)
	pusher := &recordingPusher{}
	notifications := NewNotificationService(repository.NewNotificationRepository(r.db), pusher)
	notifications.Subscribe(bus)

	articles := NewArticleService(r.articles, r.categories, r.tags, nil, bus)
	workflow := NewWorkflowService(r.articles, r.history, nil, bus)
	comments := NewEditorialService(r.articles, r.comments, bus)

	a, err := articles.Create(ctx, writer, &domain.CreateArticleRequest{Title: "خبر", Content: "<p>نص</p>"})
	require.NoError(t, err)

	_, err = workflow.ChangeStatus(ctx, editor, a.ID, domain.StatusReview, nil)
	require.NoError(t, err)
	_, err = comments.Add(ctx, editor, a.ID, &domain.AddEditorialCommentRequest{Content: "راجع المصادر"})
	require.NoError(t, err)

	list, meta, err := notifications.List(ctx, writer, false, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, meta.Total)
	require.Len(t, list, 2)
	for _, n := range list {
		assert.Equal(t, a.ID, *n.ArticleID)
	}

	// the author's own transitions do not notify them
	_, err = workflow.ChangeStatus(ctx, &domain.Actor{ID: writer.ID, Role: domain.RoleEditor}, a.ID, domain.StatusApproved, nil)
	require.NoError(t, err)
	summary, err := notifications.UnreadCount(ctx, writer)
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.TotalUnread)

	pusher.mu.Lock()
	pushed := pusher.events[writer.ID]
	pusher.mu.Unlock()
	require.NotEmpty(t, pushed)
	assert.Equal(t, ws.EventNotification, pushed[0].Type)

	assert.ErrorIs(t, notifications.MarkRead(ctx, editor, list[0].ID), common.ErrNotificationNotFound)
	require.NoError(t, notifications.MarkRead(ctx, writer, list[0].ID))
	require.NoError(t, notifications.MarkAllRead(ctx, writer))
	summary, err = notifications.UnreadCount(ctx, writer)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalUnread)
}

type mockIndex struct {
	mock.Mock
}

func (m *mockIndex) CreateIndex(ctx context.Context, index string, mapping map[string]interface{}) error {
	return m.Called(ctx, index, mapping).Error(0)
}

func (m *mockIndex) IndexDocument(ctx context.Context, index, docID string, body interface{}) error {
	return m.Called(ctx, index, docID, body).Error(0)
}

func (m *mockIndex) DeleteDocument(ctx context.Context, index, docID string) error {
	return m.Called(ctx, index, docID).Error(0)
}

func (m *mockIndex) BulkIndex(ctx context.Context, index string, docs map[string]interface{}) error {
	return m.Called(ctx, index, docs).Error(0)
}

func (m *mockIndex) Search(ctx context.Context, index string, query map[string]interface{}, from, size int) (*es.SearchResponse, error) {
	args := m.Called(ctx, index, query, from, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*es.SearchResponse), args.Error(1)
}

func publishedArticle(t *testing.T, r *repos, title string) *domain.Article {
	t.Helper()
	ctx := context.Background()
	a, err := NewArticleService(r.articles, r.categories, r.tags, nil, nil).
		Create(ctx, writer, &domain.CreateArticleRequest{Title: title, Content: "<p>" + title + "</p>"})
	require.NoError(t, err)
	a, err = NewWorkflowService(r.articles, r.history, nil, nil).Publish(ctx, editor, a.ID)
	require.NoError(t, err)
	return a
}

func TestSearchFallsBackToSQL(t *testing.T) {
	r := newRepos(t)
	publishedArticle(t, r, "الانتخابات البلدية")
	publishedArticle(t, r, "كأس العالم")

	svc := NewSearchService(nil, r.articles)
	items, meta, err := svc.Search(context.Background(), "الانتخابات", 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.EqualValues(t, 1, meta.Total)

	_, _, err = svc.Search(context.Background(), "  ", 1, 10)
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSearchUsesIndexAndKeepsItInSync(t *testing.T) {
	r := newRepos(t)
	first := publishedArticle(t, r, "الأول")
	second := publishedArticle(t, r, "الثاني")

	index := new(mockIndex)
	index.On("Search", mock.Anything, ArticlesIndex, mock.Anything, 0, 10).
		Return(&es.SearchResponse{Total: 2, Hits: []es.Hit{{ID: second.ID}, {ID: first.ID}}}, nil)
	index.On("DeleteDocument", mock.Anything, ArticlesIndex, first.ID).Return(nil).Once()

	svc := NewSearchService(index, r.articles)
	items, _, err := svc.Search(context.Background(), "x", 1, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.ID, items[0].ID)

	bus := events.NewBus(false)
	svc.Subscribe(bus)
	_, err = NewWorkflowService(r.articles, r.history, nil, bus).ChangeStatus(context.Background(), editor, first.ID, domain.StatusKilled, nil)
	require.NoError(t, err)
	index.AssertExpectations(t)
}

func TestEditorialReportWorkbook(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	seedUser(t, r, writer, "writer@example.com", "secret-pass", true)
	seedUser(t, r, editor, "editor@example.com", "secret-pass", true)
	a := publishedArticle(t, r, "تقرير")

	svc := NewReportService(r.articles, r.history, r.users)
	from := time.Now().Add(-time.Hour)
	to := time.Now().Add(time.Hour)

	var buf bytes.Buffer
	assert.ErrorIs(t, svc.ExportEditorial(ctx, writer, from, to, &buf), common.ErrForbidden)
	assert.ErrorIs(t, svc.ExportEditorial(ctx, editor, to, from, &buf), common.ErrInvalidInput)
	require.NoError(t, svc.ExportEditorial(ctx, editor, from, to, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetArticles)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Title", rows[0][1])
	assert.Equal(t, a.Title, rows[1][1])
	assert.Equal(t, "published", rows[1][2])
	assert.Equal(t, writer.Name, rows[1][3])

	history, err := f.GetRows(SheetWorkflow)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, []string{"تقرير", "draft", "published", editor.Name, "نشر المقال"}, history[1][:5])
}

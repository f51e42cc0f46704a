package app

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/handler"
	"github.com/nabaa/newsroom/internal/middleware"
	"github.com/nabaa/newsroom/internal/migration"
	"github.com/nabaa/newsroom/internal/ws"
	"github.com/nabaa/newsroom/pkg/jwt"
	"github.com/nabaa/newsroom/pkg/storage"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 1x1 transparent png
var pngPixel = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4,
	0x89, 0x00, 0x00, 0x00, 0x0a, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e, 0x44, 0xae,
	0x42, 0x60, 0x82,
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// APISuite drives the HTTP surface against an in-memory database
type APISuite struct {
	suite.Suite
	db     *gorm.DB
	jwt    *jwt.Manager
	app    *App
	router *gin.Engine

	admin, editor, writer, reader *domain.User
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.Require().NoError(handler.RegisterValidators())

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(migration.Run(db))
	s.db = db

	store, err := storage.NewLocalStore(s.T().TempDir(), "/uploads")
	s.Require().NoError(err)

	s.jwt = jwt.NewManager("test-secret-key-for-api-tests", 15*time.Minute, time.Hour)
	s.app = New(Options{DB: db, JWT: s.jwt, Store: store})
	go s.app.Hub.Run()

	s.router = gin.New()
	s.router.Use(middleware.I18n())
	s.app.Mount(s.router)

	s.admin = s.seedUser("admin@newsroom.test", domain.RoleAdmin, true)
	s.editor = s.seedUser("editor@newsroom.test", domain.RoleEditor, true)
	s.writer = s.seedUser("writer@newsroom.test", domain.RoleWriter, true)
	s.reader = s.seedUser("reader@newsroom.test", domain.RoleUser, true)
}

func (s *APISuite) TearDownTest() {
	s.app.Hub.Stop()
}

func (s *APISuite) seedUser(email string, role domain.Role, active bool) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	s.Require().NoError(err)
	u := &domain.User{
		ID:        uuid.New().String(),
		Name:      strings.Split(email, "@")[0],
		Email:     email,
		Password:  string(hash),
		Role:      role,
		IsActive:  active,
		CreatedAt: time.Now(),
	}
	s.Require().NoError(s.db.Create(u).Error)
	return u
}

func (s *APISuite) token(u *domain.User) string {
	tok, err := s.jwt.GenerateAccessToken(u.ID, string(u.Role), u.Email, u.Name)
	s.Require().NoError(err)
	return tok
}

func (s *APISuite) do(method, path string, as *domain.User, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if as != nil {
		req.Header.Set("Authorization", "Bearer "+s.token(as))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, dst interface{}) envelope {
	var env envelope
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	if dst != nil && len(env.Data) > 0 {
		s.Require().NoError(json.Unmarshal(env.Data, dst))
	}
	return env
}

func (s *APISuite) createArticle(as *domain.User, title string) *domain.Article {
	rec := s.do(http.MethodPost, "/api/admin/articles", as, map[string]interface{}{
		"title":   title,
		"content": "<p>" + title + " body text</p>",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var article domain.Article
	s.decode(rec, &article)
	return &article
}

func (s *APISuite) TestLoginSetsCookies() {
	rec := s.do(http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email": "writer@newsroom.test", "password": "password123",
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp domain.LoginResponse
	s.decode(rec, &resp)
	s.NotEmpty(resp.AccessToken)
	s.NotEmpty(resp.RefreshToken)
	s.Equal(900, resp.ExpiresIn)
	s.Equal(s.writer.ID, resp.User.ID)

	cookies := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		cookies[c.Name] = c
	}
	s.Require().Contains(cookies, middleware.AccessTokenCookie)
	s.Require().Contains(cookies, middleware.RefreshTokenCookie)
	s.True(cookies[middleware.AccessTokenCookie].HttpOnly)

	// the access cookie alone authenticates
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(cookies[middleware.AccessTokenCookie])
	me := httptest.NewRecorder()
	s.router.ServeHTTP(me, req)
	s.Equal(http.StatusOK, me.Code)

	// refresh from the cookie
	req = httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.AddCookie(cookies[middleware.RefreshTokenCookie])
	refreshed := httptest.NewRecorder()
	s.router.ServeHTTP(refreshed, req)
	s.Equal(http.StatusOK, refreshed.Code, refreshed.Body.String())
}

func (s *APISuite) TestLoginFailures() {
	rec := s.do(http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email": "writer@newsroom.test", "password": "wrong-password",
	})
	s.Equal(http.StatusUnauthorized, rec.Code)
	env := s.decode(rec, nil)
	s.False(env.Success)
	s.Equal("البريد الإلكتروني أو كلمة المرور غير صحيحة", env.Error.Message)

	s.seedUser("disabled@newsroom.test", domain.RoleWriter, false)
	rec = s.do(http.MethodPost, "/api/auth/login", nil, map[string]string{
		"email": "disabled@newsroom.test", "password": "password123",
	})
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("الحساب معطل", s.decode(rec, nil).Error.Message)

	rec = s.do(http.MethodPost, "/api/auth/login", nil, map[string]string{"email": "not-an-email"})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestLogoutClearsCookies() {
	rec := s.do(http.MethodPost, "/api/auth/logout", nil, nil)
	s.Equal(http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		s.Empty(c.Value)
		s.Less(c.MaxAge, 0)
	}
}

func (s *APISuite) TestAdminRoutesRequireToken() {
	rec := s.do(http.MethodGet, "/api/admin/articles", nil, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/articles", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	bad := httptest.NewRecorder()
	s.router.ServeHTTP(bad, req)
	s.Equal(http.StatusUnauthorized, bad.Code)
}

func (s *APISuite) TestCookieMutationsNeedCSRF() {
	access := &http.Cookie{Name: middleware.AccessTokenCookie, Value: s.token(s.writer)}
	post := func(csrfCookie *http.Cookie, header string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/articles",
			strings.NewReader(`{"title":"Cookie Story","content":"<p>text</p>"}`))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(access)
		if csrfCookie != nil {
			req.AddCookie(csrfCookie)
		}
		if header != "" {
			req.Header.Set("X-CSRF-Token", header)
		}
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec.Code
	}

	s.Equal(http.StatusForbidden, post(nil, ""))

	rec := s.do(http.MethodGet, "/api/auth/csrf", nil, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var csrf *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == middleware.CSRFCookie {
			csrf = c
		}
	}
	s.Require().NotNil(csrf)
	s.False(csrf.HttpOnly)

	s.Equal(http.StatusForbidden, post(csrf, "wrong"))
	s.Equal(http.StatusCreated, post(csrf, csrf.Value))
}

func (s *APISuite) TestEditorialFlow() {
	article := s.createArticle(s.writer, "Budget Vote")
	s.Equal("budget-vote", article.Slug)
	s.Equal(domain.StatusDraft, article.Status)
	s.Equal(1, article.CurrentRevision)

	statusPath := "/api/admin/articles/" + article.ID + "/status"

	// writers cannot move articles through the workflow
	rec := s.do(http.MethodPatch, statusPath, s.writer, map[string]string{"status": "review"})
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPatch, statusPath, s.editor, map[string]string{"status": "bogus"})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPatch, statusPath, s.editor, map[string]string{"status": "review", "comment": "جاهز للمراجعة"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var history []domain.WorkflowHistory
	rec = s.do(http.MethodGet, "/api/admin/articles/"+article.ID+"/history", s.writer, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &history)
	s.Require().Len(history, 1)
	s.Equal(domain.StatusDraft, history[0].FromStatus)
	s.Equal(domain.StatusReview, history[0].ToStatus)
	s.Equal(s.editor.ID, history[0].UserID)

	// content edit appends revision 2
	rec = s.do(http.MethodPut, "/api/admin/articles/"+article.ID, s.writer, map[string]string{
		"content": "<p>revised</p>", "edit_reason": "تصحيح",
	})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var updated domain.Article
	s.decode(rec, &updated)
	s.Equal(2, updated.CurrentRevision)

	// writers cannot restore
	rec = s.do(http.MethodPost, "/api/admin/articles/"+article.ID+"/revisions/1/restore", s.writer, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/admin/articles/"+article.ID+"/revisions/1/restore", s.editor, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var restored domain.Article
	s.decode(rec, &restored)
	s.Equal(3, restored.CurrentRevision)
	s.Contains(restored.Content, "Budget Vote body text")

	var revisions []domain.ArticleRevision
	rec = s.do(http.MethodGet, "/api/admin/articles/"+article.ID+"/revisions", s.writer, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &revisions)
	s.Len(revisions, 3)

	rec = s.do(http.MethodGet, "/api/admin/articles/"+article.ID+"/revisions/9", s.editor, nil)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodGet, "/api/admin/articles/"+article.ID+"/revisions/abc", s.editor, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestEditorialComments() {
	article := s.createArticle(s.writer, "Council Meeting")
	commentsPath := "/api/admin/articles/" + article.ID + "/comments"

	rec := s.do(http.MethodPost, commentsPath, s.writer, map[string]string{"content": "note"})
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, commentsPath, s.editor, map[string]string{"content": "أعد صياغة الفقرة", "block_id": "p-2"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var comment domain.EditorialComment
	s.decode(rec, &comment)
	s.False(comment.IsResolved)

	var list []domain.EditorialComment
	rec = s.do(http.MethodGet, commentsPath+"?block_id=p-2", s.writer, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &list)
	s.Len(list, 1)

	rec = s.do(http.MethodGet, commentsPath+"?block_id=p-9", s.writer, nil)
	s.decode(rec, &list)
	s.Empty(list)

	rec = s.do(http.MethodPost, "/api/admin/comments/"+comment.ID+"/resolve", s.editor, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &comment)
	s.True(comment.IsResolved)
	s.Require().NotNil(comment.ResolvedBy)
	s.Equal(s.editor.ID, *comment.ResolvedBy)

	rec = s.do(http.MethodPost, "/api/admin/comments/"+comment.ID+"/unresolve", s.editor, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &comment)
	s.False(comment.IsResolved)

	rec = s.do(http.MethodPost, "/api/admin/comments/missing/resolve", s.editor, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestPublicReadsAndSearch() {
	draft := s.createArticle(s.writer, "Hidden Draft")
	published := s.createArticle(s.writer, "Election Results")

	rec := s.do(http.MethodPost, "/api/admin/articles/"+published.ID+"/publish", s.editor, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/public/articles/"+published.Slug, nil, nil)
	s.Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/public/articles/"+draft.Slug, nil, nil)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("المقال غير موجود", s.decode(rec, nil).Error.Message)

	var list []domain.Article
	rec = s.do(http.MethodGet, "/api/public/articles", nil, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &list)
	s.Require().Len(list, 1)
	s.Equal(published.ID, list[0].ID)

	rec = s.do(http.MethodGet, "/api/public/search?q=Election", nil, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &list)
	s.Require().Len(list, 1)

	rec = s.do(http.MethodGet, "/api/public/search?q=Hidden", nil, nil)
	s.decode(rec, &list)
	s.Empty(list)

	rec = s.do(http.MethodGet, "/api/public/search?q=", nil, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestUserManagement() {
	rec := s.do(http.MethodGet, "/api/admin/users", s.writer, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	body := map[string]string{
		"name": "New Writer", "email": "New@Newsroom.test", "password": "password123", "role": "writer",
	}
	rec = s.do(http.MethodPost, "/api/admin/users", s.admin, body)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var created domain.User
	s.decode(rec, &created)
	s.Equal("new@newsroom.test", created.Email)
	s.Equal(domain.RoleWriter, created.Role)

	rec = s.do(http.MethodPost, "/api/admin/users", s.admin, body)
	s.Equal(http.StatusConflict, rec.Code)

	body["email"] = "other@newsroom.test"
	body["role"] = "chief"
	rec = s.do(http.MethodPost, "/api/admin/users", s.admin, body)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodDelete, "/api/admin/users/"+s.admin.ID, s.admin, nil)
	s.Equal(http.StatusForbidden, rec.Code)
	s.Equal("لا يمكنك حذف حسابك الخاص", s.decode(rec, nil).Error.Message)

	// a writer may edit their own profile but not promote themselves
	rec = s.do(http.MethodPut, "/api/admin/users/"+s.writer.ID, s.writer, map[string]string{"role": "admin"})
	s.Equal(http.StatusForbidden, rec.Code)
	rec = s.do(http.MethodPut, "/api/admin/users/"+s.writer.ID, s.writer, map[string]string{"name": "كاتب"})
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestActivityIsRecorded() {
	s.createArticle(s.writer, "Logged Article")

	s.Eventually(func() bool {
		var count int64
		s.db.Model(&domain.ActivityLog{}).Where("user_id = ? AND action = ?", s.writer.ID, "create_articles").Count(&count)
		return count == 1
	}, 2*time.Second, 20*time.Millisecond)

	rec := s.do(http.MethodGet, "/api/admin/activity", s.editor, nil)
	s.Equal(http.StatusForbidden, rec.Code)
	rec = s.do(http.MethodGet, "/api/admin/activity?user_id="+s.writer.ID, s.admin, nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestEditorialReport() {
	s.createArticle(s.writer, "Report Article")

	rec := s.do(http.MethodGet, "/api/admin/reports/editorial.xlsx", s.writer, nil)
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodGet, "/api/admin/reports/editorial.xlsx", s.editor, nil)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Equal("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", rec.Header().Get("Content-Type"))
	s.Contains(rec.Header().Get("Content-Disposition"), "editorial-")
	// xlsx is a zip archive
	s.True(bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")))

	rec = s.do(http.MethodGet, "/api/admin/reports/editorial.xlsx?from=yesterday", s.editor, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestMediaUpload() {
	upload := func(filename string, content []byte, as *domain.User) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("file", filename)
		s.Require().NoError(err)
		_, err = part.Write(content)
		s.Require().NoError(err)
		s.Require().NoError(w.WriteField("alt", "صورة"))
		s.Require().NoError(w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/admin/media", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+s.token(as))
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("pixel.png", pngPixel, s.writer)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var media domain.Media
	s.decode(rec, &media)
	s.Equal("image/png", media.MimeType)
	s.Require().NotNil(media.Alt)
	s.Equal("صورة", *media.Alt)

	rec = upload("notes.txt", []byte("plain text, not an image"), s.writer)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = upload("pixel.png", pngPixel, s.reader)
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *APISuite) TestAIAssistWithoutProvider() {
	rec := s.do(http.MethodPost, "/api/admin/ai/readability", s.reader, map[string]string{"content": "ab cd ef gh"})
	s.Equal(http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/admin/ai/readability", s.writer, map[string]string{"content": "ab cd ef gh"})
	s.Require().Equal(http.StatusOK, rec.Code)
	var score struct {
		Score int `json:"score"`
	}
	s.decode(rec, &score)
	s.Equal(86, score.Score)

	rec = s.do(http.MethodPost, "/api/admin/ai/titles", s.writer, map[string]string{"content": "نص"})
	s.Require().Equal(http.StatusOK, rec.Code)
	var titles struct {
		Titles []string `json:"titles"`
	}
	s.decode(rec, &titles)
	s.Empty(titles.Titles)

	rec = s.do(http.MethodPost, "/api/admin/ai/summarize", s.writer, map[string]string{})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestStatusChangeNotifiesAuthor() {
	article := s.createArticle(s.writer, "Notify Me")

	rec := s.do(http.MethodPatch, "/api/admin/articles/"+article.ID+"/status", s.editor, map[string]string{"status": "approved"})
	s.Require().Equal(http.StatusOK, rec.Code)

	var summary domain.NotificationSummary
	rec = s.do(http.MethodGet, "/api/admin/notifications/unread-count", s.writer, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &summary)
	s.EqualValues(1, summary.TotalUnread)

	var list []domain.Notification
	rec = s.do(http.MethodGet, "/api/admin/notifications?unread=true", s.writer, nil)
	s.decode(rec, &list)
	s.Require().Len(list, 1)

	rec = s.do(http.MethodPost, "/api/admin/notifications/"+list[0].ID+"/read", s.editor, nil)
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/admin/notifications/read-all", s.writer, nil)
	s.Equal(http.StatusOK, rec.Code)
	rec = s.do(http.MethodGet, "/api/admin/notifications/unread-count", s.writer, nil)
	s.decode(rec, &summary)
	s.EqualValues(0, summary.TotalUnread)
}

func (s *APISuite) TestWebSocketPush() {
	server := httptest.NewServer(s.router)
	defer server.Close()

	header := http.Header{}
	header.Set("Authorization", "Bearer "+s.token(s.writer))
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws/notifications", header)
	s.Require().NoError(err)
	defer conn.Close()
	defer resp.Body.Close()

	s.Require().Eventually(func() bool {
		return s.app.Hub.Connected(s.writer.ID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	article := s.createArticle(s.writer, "Live Update")
	rec := s.do(http.MethodPatch, "/api/admin/articles/"+article.ID+"/status", s.editor, map[string]string{"status": "review"})
	s.Require().Equal(http.StatusOK, rec.Code)

	s.Require().NoError(conn.SetReadDeadline(time.Now().Add(2 * time.Second)))
	_, data, err := conn.ReadMessage()
	s.Require().NoError(err)
	var event ws.Event
	s.Require().NoError(json.Unmarshal(data, &event))
	s.Equal(ws.EventNotification, event.Type)

	// unauthenticated upgrades are refused before the handshake
	_, resp, err = websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws/notifications", nil)
	s.Error(err)
	s.Require().NotNil(resp)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

package common

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/pkg/i18n"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err    error
		status int
		key    string
	}{
		{domain.ErrNoActor, http.StatusUnauthorized, "error.unauthorized"},
		{domain.ErrInsufficientRole, http.StatusForbidden, "error.forbidden"},
		{ErrNotOwner, http.StatusForbidden, "article.not_owner"},
		{fmt.Errorf("load: %w", ErrArticleNotFound), http.StatusNotFound, "article.not_found"},
		{ErrSlugTaken, http.StatusConflict, "article.slug_taken"},
		{ErrRevisionRace, http.StatusConflict, "revision.conflict"},
		{ErrAccountDisabled, http.StatusForbidden, "auth.account_disabled"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "error.internal"},
	}
	for _, tc := range cases {
		status, key := StatusFor(tc.err)
		assert.Equal(t, tc.status, status, tc.err.Error())
		assert.Equal(t, tc.key, key, tc.err.Error())
	}
}

func TestHandleError_LocalizedMessage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	HandleError(c, ErrSelfDelete)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "لا يمكنك حذف حسابك الخاص")
	assert.Contains(t, w.Body.String(), `"code":"FORBIDDEN"`)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(i18n.ContextKey, i18n.LocaleEn)

	HandleError(c, fmt.Errorf("db exploded"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
	assert.NotContains(t, w.Body.String(), "db exploded")
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(2, 20, 41)
	assert.Equal(t, int64(3), m.TotalPages)
	assert.Equal(t, int64(0), NewMeta(1, 20, 0).TotalPages)
}

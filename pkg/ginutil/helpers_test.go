package ginutil

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestPagination(t *testing.T) {
	page, perPage := Pagination(newContext("/?page=3&per_page=50"))
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, perPage)

	page, perPage = Pagination(newContext("/?page=-1&per_page=1000"))
	assert.Equal(t, 1, page)
	assert.Equal(t, MaxPerPage, perPage)

	page, perPage = Pagination(newContext("/"))
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPerPage, perPage)
}

func TestQueryBool(t *testing.T) {
	assert.Nil(t, QueryBool(newContext("/"), "featured"))
	assert.Nil(t, QueryBool(newContext("/?featured=maybe"), "featured"))

	v := QueryBool(newContext("/?featured=true"), "featured")
	if assert.NotNil(t, v) {
		assert.True(t, *v)
	}
}

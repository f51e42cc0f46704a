package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNilClientIsNoop(t *testing.T) {
	svc := NewService(nil)
	ctx := context.Background()

	assert.False(t, svc.IsAvailable())
	assert.NoError(t, svc.Set(ctx, "k", map[string]int{"a": 1}, 0))

	var dest map[string]int
	assert.ErrorIs(t, svc.Get(ctx, "k", &dest), ErrMiss)
	assert.NoError(t, svc.InvalidateArticles(ctx, "slug"))
	assert.NoError(t, svc.InvalidateCategories(ctx))
}

func TestKeys(t *testing.T) {
	svc := NewService(nil)
	assert.Equal(t, "article:hello", svc.ArticleKey("hello"))
	assert.Equal(t, "articles:latest:2:20", svc.ArticleListKey("latest", 2, 20))
	assert.Equal(t, "categories:active", svc.CategoriesKey("active"))
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/events"
	"github.com/nabaa/newsroom/internal/repository"
	es "github.com/nabaa/newsroom/pkg/elasticsearch"
	"github.com/nabaa/newsroom/pkg/htmltext"
	pkglogger "github.com/nabaa/newsroom/pkg/logger"
)

// ArticlesIndex is the Elasticsearch index for published articles
const ArticlesIndex = "articles"

// SearchIndex is the subset of the Elasticsearch client used for article search
type SearchIndex interface {
	CreateIndex(ctx context.Context, index string, mapping map[string]interface{}) error
	IndexDocument(ctx context.Context, index, docID string, body interface{}) error
	DeleteDocument(ctx context.Context, index, docID string) error
	BulkIndex(ctx context.Context, index string, docs map[string]interface{}) error
	Search(ctx context.Context, index string, query map[string]interface{}, from, size int) (*es.SearchResponse, error)
}

// ArticleDocument is an article as stored in the search index
type ArticleDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Slug        string `json:"slug"`
	Excerpt     string `json:"excerpt,omitempty"`
	ContentText string `json:"content_text"`
	CategoryID  string `json:"category_id,omitempty"`
	AuthorID    string `json:"author_id"`
	PublishedAt string `json:"published_at,omitempty"`
	Views       int    `json:"views"`
}

// SearchService searches published articles. Without an index it falls back to SQL LIKE.
type SearchService struct {
	index    SearchIndex
	articles repository.ArticleRepository
}

// NewSearchService creates a new SearchService. index may be nil.
func NewSearchService(index SearchIndex, articles repository.ArticleRepository) *SearchService {
	return &SearchService{index: index, articles: articles}
}

// Enabled reports whether an Elasticsearch index backs the search
func (s *SearchService) Enabled() bool {
	return s.index != nil
}

// EnsureIndex creates the articles index with an Arabic analyzer
func (s *SearchService) EnsureIndex(ctx context.Context) error {
	if s.index == nil {
		return nil
	}
	arabicText := map[string]interface{}{"type": "text", "analyzer": "arabic"}
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":           map[string]interface{}{"type": "keyword"},
				"title":        arabicText,
				"subtitle":     arabicText,
				"slug":         map[string]interface{}{"type": "keyword"},
				"excerpt":      arabicText,
				"content_text": arabicText,
				"category_id":  map[string]interface{}{"type": "keyword"},
				"author_id":    map[string]interface{}{"type": "keyword"},
				"published_at": map[string]interface{}{"type": "date"},
				"views":        map[string]interface{}{"type": "integer"},
			},
		},
	}
	return s.index.CreateIndex(ctx, ArticlesIndex, mapping)
}

// Search returns published articles matching q, best match first
func (s *SearchService) Search(ctx context.Context, q string, page, perPage int) ([]*domain.Article, *common.Meta, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil, common.ErrInvalidInput
	}
	offset := (page - 1) * perPage

	if s.index != nil {
		items, total, err := s.searchIndex(ctx, q, offset, perPage)
		if err == nil {
			return items, common.NewMeta(page, perPage, total), nil
		}
		pkglogger.GetLogger().Warn().Err(err).Msg("elasticsearch search failed, falling back to SQL")
	}

	items, total, err := s.articles.SearchPublished(ctx, q, offset, perPage)
	if err != nil {
		return nil, nil, err
	}
	return items, common.NewMeta(page, perPage, total), nil
}

func (s *SearchService) searchIndex(ctx context.Context, q string, offset, limit int) ([]*domain.Article, int64, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  q,
				"fields": []string{"title^3", "subtitle^2", "excerpt", "content_text"},
			},
		},
	}
	res, err := s.index.Search(ctx, ArticlesIndex, query, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	found, err := s.articles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	items := make([]*domain.Article, 0, len(found))
	for _, a := range found {
		if a.Status == domain.StatusPublished {
			items = append(items, a)
		}
	}
	return items, res.Total, nil
}

// Index adds a published article to the index, or removes an article that is no longer published
func (s *SearchService) Index(ctx context.Context, article *domain.Article) error {
	if s.index == nil || article == nil {
		return nil
	}
	if article.Status != domain.StatusPublished {
		return s.index.DeleteDocument(ctx, ArticlesIndex, article.ID)
	}
	return s.index.IndexDocument(ctx, ArticlesIndex, article.ID, NewArticleDocument(article))
}

// Remove drops an article from the index
func (s *SearchService) Remove(ctx context.Context, articleID string) error {
	if s.index == nil {
		return nil
	}
	return s.index.DeleteDocument(ctx, ArticlesIndex, articleID)
}

// Reindex bulk-indexes every published article and returns how many were sent
func (s *SearchService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, fmt.Errorf("search index not configured")
	}
	if err := s.EnsureIndex(ctx); err != nil {
		return 0, err
	}
	articles, err := s.articles.ListAllPublished(ctx)
	if err != nil {
		return 0, err
	}
	if len(articles) == 0 {
		return 0, nil
	}
	docs := make(map[string]interface{}, len(articles))
	for _, a := range articles {
		docs[a.ID] = NewArticleDocument(a)
	}
	if err := s.index.BulkIndex(ctx, ArticlesIndex, docs); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// Subscribe keeps the index in sync with article events
func (s *SearchService) Subscribe(bus *events.Bus) {
	if s.index == nil {
		return
	}
	update := func(ctx context.Context, e events.Event) {
		if err := s.Index(ctx, e.Article); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("topic", e.Topic).Msg("search index update failed")
		}
	}
	bus.Subscribe("search", events.TopicStatusChanged, update)
	bus.Subscribe("search", events.TopicArticleSaved, update)
	bus.Subscribe("search", events.TopicArticleDeleted, func(ctx context.Context, e events.Event) {
		if e.Article == nil {
			return
		}
		if err := s.Remove(ctx, e.Article.ID); err != nil {
			pkglogger.GetLogger().Warn().Err(err).Str("article_id", e.Article.ID).Msg("search index delete failed")
		}
	})
}

// NewArticleDocument converts an article to its index document
func NewArticleDocument(a *domain.Article) ArticleDocument {
	doc := ArticleDocument{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		ContentText: htmltext.Text(a.Content),
		AuthorID:    a.AuthorID,
		Views:       a.Views,
	}
	if a.Subtitle != nil {
		doc.Subtitle = *a.Subtitle
	}
	if a.Excerpt != nil {
		doc.Excerpt = *a.Excerpt
	}
	if a.CategoryID != nil {
		doc.CategoryID = *a.CategoryID
	}
	if a.PublishedAt != nil {
		doc.PublishedAt = a.PublishedAt.UTC().Format(time.RFC3339)
	}
	return doc
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/repository"
	"github.com/nabaa/newsroom/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Complete(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

func (m *mockLLM) Model() string { return "mock" }

func TestParseList(t *testing.T) {
	reply := "1. عنوان أول\n2) عنوان ثان\n\n- عنوان ثالث\n• عنوان رابع\n\"عنوان خامس\"\n6. زائد"
	assert.Equal(t, []string{"عنوان أول", "عنوان ثان", "عنوان ثالث", "عنوان رابع", "عنوان خامس"}, ParseList(reply, 5))
	assert.Empty(t, ParseList("\n \n", 5))
}

func TestParseSentiment(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  domain.SentimentResult
	}{
		{"plain json", `{"sentiment":"positive","score":87}`, domain.SentimentResult{Sentiment: "positive", Score: 87}},
		{"fenced", "```json\n{\"sentiment\":\"NEGATIVE\",\"score\":140}\n```", domain.SentimentResult{Sentiment: "negative", Score: 100}},
		{"unknown label", `{"sentiment":"angry","score":30}`, domain.SentimentResult{Sentiment: "neutral", Score: 30}},
		{"garbage", "لا أعرف", domain.SentimentResult{Sentiment: "neutral", Score: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSentiment(tt.reply))
		})
	}
}

func TestReadabilityScore(t *testing.T) {
	assert.Equal(t, 50, ReadabilityScore(""))
	// one sentence of 4 two-rune words: 100 - 4*2 - 2*3
	assert.Equal(t, 86, ReadabilityScore("ab cd ef gh"))
	assert.Equal(t, 0, ReadabilityScore("كلمةطويلةجداجداجداجداجداجداجداجدا "+"كلمةطويلةجداجداجداجداجداجداجداجدا"))
}

func TestAIServiceFallsBackWhenDisabled(t *testing.T) {
	svc := NewAIService(llm.Disabled{}, nil, nil)
	ctx := context.Background()

	summary, err := svc.Summarize(ctx, writer, "<p>نص</p>", 0)
	require.NoError(t, err)
	assert.Empty(t, summary)

	titles, err := svc.SuggestTitles(ctx, writer, "عنوان", "<p>نص</p>")
	require.NoError(t, err)
	assert.NotNil(t, titles)
	assert.Empty(t, titles)

	sentiment, err := svc.AnalyzeSentiment(ctx, writer, "نص")
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentResult{Sentiment: domain.SentimentNeutral, Score: 50}, *sentiment)

	seo, err := svc.GenerateSEODescription(ctx, writer, "عنوان", "نص")
	require.NoError(t, err)
	assert.Empty(t, seo)
}

func TestAIServiceRequiresWriter(t *testing.T) {
	svc := NewAIService(nil, nil, nil)
	_, err := svc.Summarize(context.Background(), reader, "نص", 0)
	assert.ErrorIs(t, err, common.ErrForbidden)
}

func TestAIServiceUsesProviderReply(t *testing.T) {
	client := new(mockLLM)
	client.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("1. كلمة\n2. أخرى", nil).Once()
	svc := NewAIService(client, nil, nil)

	keywords, err := svc.ExtractKeywords(context.Background(), writer, "عنوان", "<p>نص المقال</p>")
	require.NoError(t, err)
	assert.Equal(t, []string{"كلمة", "أخرى"}, keywords)
	client.AssertExpectations(t)
}

func TestAnalyzeArticleStoresFeatures(t *testing.T) {
	r := newRepos(t)
	articles := NewArticleService(r.articles, r.categories, r.tags, nil, nil)
	a, err := articles.Create(context.Background(), writer, &domain.CreateArticleRequest{
		Title:   "الاقتصاد",
		Content: "<p>ارتفعت الأسعار. انخفض الطلب.</p>",
	})
	require.NoError(t, err)

	client := new(mockLLM)
	client.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("timeout"))
	features := repository.NewAIFeatureRepository(r.db)
	svc := NewAIService(client, r.articles, features)

	feature, err := svc.AnalyzeArticle(context.Background(), writer, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, feature.ArticleID)
	assert.Equal(t, domain.SentimentNeutral, *feature.Sentiment)
	assert.Equal(t, 50, feature.SentimentScore)
	assert.JSONEq(t, `[]`, string(feature.Keywords))
	assert.Nil(t, feature.Summary)

	stored, err := svc.GetAnalysis(context.Background(), editor, a.ID)
	require.NoError(t, err)
	assert.Equal(t, feature.ReadabilityScore, stored.ReadabilityScore)

	_, err = svc.AnalyzeArticle(context.Background(), writer, "missing")
	assert.ErrorIs(t, err, common.ErrArticleNotFound)
}

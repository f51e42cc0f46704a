package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/nabaa/newsroom/internal/common"
	"github.com/nabaa/newsroom/internal/domain"
	"github.com/nabaa/newsroom/internal/repository"
	"github.com/nabaa/newsroom/pkg/htmltext"
	"github.com/nabaa/newsroom/pkg/llm"
	pkglogger "github.com/nabaa/newsroom/pkg/logger"
	"github.com/nabaa/newsroom/pkg/metrics"
	"gorm.io/datatypes"
)

// AI feature names used in logs and metrics
const (
	FeatureSummary     = "summary"
	FeatureTitles      = "titles"
	FeatureSentiment   = "sentiment"
	FeatureKeywords    = "keywords"
	FeatureSuggestions = "suggestions"
	FeatureSEO         = "seo_description"
)

const (
	defaultSummaryLength = 200
	fallbackScore        = 50
	maxPromptRunes       = 12000
	aiCallTimeout        = 60 * time.Second
)

var listMarker = regexp.MustCompile(`^(\d+[.)\-]|[-*•])\s*`)

var sentenceSplit = regexp.MustCompile(`[.!?؟]+`)

// AIService provides writing aids. LLM failures never surface as errors: each
// operation degrades to its fallback value.
type AIService interface {
	Summarize(ctx context.Context, actor *domain.Actor, content string, maxLength int) (string, error)
	SuggestTitles(ctx context.Context, actor *domain.Actor, title, content string) ([]string, error)
	AnalyzeSentiment(ctx context.Context, actor *domain.Actor, content string) (*domain.SentimentResult, error)
	ExtractKeywords(ctx context.Context, actor *domain.Actor, title, content string) ([]string, error)
	SuggestImprovements(ctx context.Context, actor *domain.Actor, title, content string) ([]string, error)
	GenerateSEODescription(ctx context.Context, actor *domain.Actor, title, content string) (string, error)
	Readability(ctx context.Context, actor *domain.Actor, content string) (int, error)
	AnalyzeArticle(ctx context.Context, actor *domain.Actor, articleID string) (*domain.AIFeature, error)
	GetAnalysis(ctx context.Context, actor *domain.Actor, articleID string) (*domain.AIFeature, error)
}

type aiService struct {
	client   llm.Client
	articles repository.ArticleRepository
	features repository.AIFeatureRepository
	now      func() time.Time
}

// NewAIService creates a new AIService. A nil client disables the LLM.
func NewAIService(client llm.Client, articles repository.ArticleRepository, features repository.AIFeatureRepository) AIService {
	if client == nil {
		client = llm.Disabled{}
	}
	return &aiService{client: client, articles: articles, features: features, now: time.Now}
}

func (s *aiService) Summarize(ctx context.Context, actor *domain.Actor, content string, maxLength int) (string, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return "", err
	}
	if maxLength <= 0 {
		maxLength = defaultSummaryLength
	}
	return s.summarize(ctx, promptText(content), maxLength), nil
}

func (s *aiService) SuggestTitles(ctx context.Context, actor *domain.Actor, title, content string) ([]string, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	return s.suggestTitles(ctx, title, promptText(content)), nil
}

func (s *aiService) AnalyzeSentiment(ctx context.Context, actor *domain.Actor, content string) (*domain.SentimentResult, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	result := s.sentiment(ctx, promptText(content))
	return &result, nil
}

func (s *aiService) ExtractKeywords(ctx context.Context, actor *domain.Actor, title, content string) ([]string, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	return s.keywords(ctx, title, promptText(content)), nil
}

func (s *aiService) SuggestImprovements(ctx context.Context, actor *domain.Actor, title, content string) ([]string, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	return s.suggestions(ctx, title, promptText(content)), nil
}

func (s *aiService) GenerateSEODescription(ctx context.Context, actor *domain.Actor, title, content string) (string, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return "", err
	}
	return s.seoDescription(ctx, title, promptText(content)), nil
}

func (s *aiService) Readability(ctx context.Context, actor *domain.Actor, content string) (int, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return 0, err
	}
	return ReadabilityScore(htmltext.Text(content)), nil
}

// AnalyzeArticle runs every assist on the stored article in parallel and upserts the result
func (s *aiService) AnalyzeArticle(ctx context.Context, actor *domain.Actor, articleID string) (*domain.AIFeature, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	article, err := s.articles.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, common.ErrArticleNotFound
	}

	content := promptText(article.Content)
	var analysis domain.ArticleAnalysis

	var wg sync.WaitGroup
	wg.Add(6)
	go func() { defer wg.Done(); analysis.Summary = s.summarize(ctx, content, defaultSummaryLength) }()
	go func() { defer wg.Done(); analysis.SuggestedTitles = s.suggestTitles(ctx, article.Title, content) }()
	go func() { defer wg.Done(); analysis.Sentiment = s.sentiment(ctx, content) }()
	go func() { defer wg.Done(); analysis.Keywords = s.keywords(ctx, article.Title, content) }()
	go func() { defer wg.Done(); analysis.Suggestions = s.suggestions(ctx, article.Title, content) }()
	go func() { defer wg.Done(); analysis.SEODescription = s.seoDescription(ctx, article.Title, content) }()
	wg.Wait()
	analysis.Readability = ReadabilityScore(htmltext.Text(article.Content))

	now := s.now()
	feature := &domain.AIFeature{
		ID:               uuid.New().String(),
		ArticleID:        article.ID,
		Summary:          nonEmpty(analysis.Summary),
		Sentiment:        nonEmpty(analysis.Sentiment.Sentiment),
		SentimentScore:   analysis.Sentiment.Score,
		Keywords:         jsonList(analysis.Keywords),
		SuggestedTitles:  jsonList(analysis.SuggestedTitles),
		Suggestions:      jsonList(analysis.Suggestions),
		SEODescription:   nonEmpty(analysis.SEODescription),
		ReadabilityScore: analysis.Readability,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.features.Upsert(ctx, feature); err != nil {
		return nil, fmt.Errorf("save ai analysis: %w", err)
	}
	return feature, nil
}

func (s *aiService) GetAnalysis(ctx context.Context, actor *domain.Actor, articleID string) (*domain.AIFeature, error) {
	if err := domain.Require(actor, domain.RoleWriter); err != nil {
		return nil, err
	}
	feature, err := s.features.FindByArticle(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if feature == nil {
		return nil, common.ErrNotFound
	}
	return feature, nil
}

func (s *aiService) summarize(ctx context.Context, content string, maxLength int) string {
	reply, ok := s.complete(ctx, FeatureSummary,
		"أنت مساعد ذكي متخصص في تلخيص المقالات الإعلامية باللغة العربية. قم بإنشاء ملخص موجز ودقيق للمقال يحتوي على النقاط الرئيسية فقط.",
		fmt.Sprintf("قم بتلخيص المقال التالي في 2-3 جمل وبما لا يتجاوز %d حرفاً:\n\n%s", maxLength, content))
	if !ok {
		return ""
	}
	return reply
}

func (s *aiService) suggestTitles(ctx context.Context, title, content string) []string {
	reply, ok := s.complete(ctx, FeatureTitles,
		"أنت مساعد ذكي متخصص في كتابة عناوين جذابة للمقالات الإعلامية باللغة العربية. قم بإنشاء عناوين واضحة ومشوقة تجذب القارئ.",
		fmt.Sprintf("العنوان الحالي: %s\n\nالمحتوى:\n%s\n\nاقترح 5 عناوين بديلة جذابة ومناسبة لهذا المقال. قدم العناوين فقط، كل عنوان في سطر منفصل.", title, content))
	if !ok {
		return []string{}
	}
	return ParseList(reply, 5)
}

func (s *aiService) sentiment(ctx context.Context, content string) domain.SentimentResult {
	fallback := domain.SentimentResult{Sentiment: domain.SentimentNeutral, Score: fallbackScore}
	reply, ok := s.complete(ctx, FeatureSentiment,
		"أنت محلل مشاعر متخصص. قم بتحليل النبرة العامة للنص وتحديد ما إذا كانت إيجابية أو سلبية أو محايدة.",
		fmt.Sprintf("حلل المشاعر في النص التالي وحدد النبرة العامة:\n\n%s\n\nقدم الإجابة بصيغة JSON فقط: {\"sentiment\": \"positive|negative|neutral\", \"score\": 0-100}", content))
	if !ok {
		return fallback
	}
	return ParseSentiment(reply)
}

func (s *aiService) keywords(ctx context.Context, title, content string) []string {
	reply, ok := s.complete(ctx, FeatureKeywords,
		"أنت خبير SEO متخصص في اقتراح الكلمات المفتاحية للمقالات باللغة العربية. اقترح كلمات مفتاحية ذات صلة ومحسّنة لمحركات البحث.",
		fmt.Sprintf("العنوان: %s\n\nالمحتوى:\n%s\n\nاقترح 10 كلمات مفتاحية مناسبة لهذا المقال. قدم الكلمات فقط، كل كلمة في سطر منفصل.", title, content))
	if !ok {
		return []string{}
	}
	return ParseList(reply, 10)
}

func (s *aiService) suggestions(ctx context.Context, title, content string) []string {
	reply, ok := s.complete(ctx, FeatureSuggestions,
		"أنت محرر محترف متخصص في تحسين المقالات الإعلامية. قدم اقتراحات عملية لتحسين جودة المقال.",
		fmt.Sprintf("العنوان: %s\n\nالمحتوى:\n%s\n\nقدم 5 اقتراحات لتحسين هذا المقال (من حيث الأسلوب، البنية، الوضوح، إلخ). قدم كل اقتراح في سطر منفصل.", title, content))
	if !ok {
		return []string{}
	}
	return ParseList(reply, 5)
}

func (s *aiService) seoDescription(ctx context.Context, title, content string) string {
	reply, ok := s.complete(ctx, FeatureSEO,
		"أنت خبير SEO متخصص في كتابة أوصاف محسّنة لمحركات البحث باللغة العربية. اكتب وصفاً جذاباً ومختصراً (150-160 حرف).",
		fmt.Sprintf("العنوان: %s\n\nالمحتوى:\n%s\n\nاكتب وصف SEO مناسب لهذا المقال (150-160 حرف).", title, content))
	if !ok {
		return ""
	}
	return strings.Trim(reply, "\"' ")
}

// complete calls the provider and reports whether a usable reply came back
func (s *aiService) complete(ctx context.Context, feature, system, user string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, aiCallTimeout)
	defer cancel()

	reply, err := s.client.Complete(ctx, system, user)
	reply = strings.TrimSpace(reply)
	if err != nil || reply == "" {
		metrics.AIRequest(feature, metrics.OutcomeFallback)
		pkglogger.GetLogger().Warn().
			Err(err).
			Str("feature", feature).
			Str("model", s.client.Model()).
			Msg("ai assist failed, using fallback")
		return "", false
	}
	metrics.AIRequest(feature, metrics.OutcomeOK)
	return reply, true
}

// ParseList splits a one-item-per-line reply, stripping numbering and bullets
func ParseList(reply string, limit int) []string {
	items := make([]string, 0, limit)
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(listMarker.ReplaceAllString(strings.TrimSpace(line), ""))
		line = strings.Trim(line, "\"")
		if line == "" {
			continue
		}
		items = append(items, line)
		if limit > 0 && len(items) == limit {
			break
		}
	}
	return items
}

// ParseSentiment reads the JSON sentiment reply. Unknown labels become neutral
// and the score is clamped to 0..100.
func ParseSentiment(reply string) domain.SentimentResult {
	result := domain.SentimentResult{Sentiment: domain.SentimentNeutral, Score: fallbackScore}
	var parsed struct {
		Sentiment string  `json:"sentiment"`
		Score     float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(llm.CleanJSON(reply)), &parsed); err != nil {
		return result
	}
	switch strings.ToLower(parsed.Sentiment) {
	case domain.SentimentPositive, domain.SentimentNegative, domain.SentimentNeutral:
		result.Sentiment = strings.ToLower(parsed.Sentiment)
	}
	if parsed.Score > 0 {
		result.Score = clamp(int(math.Round(parsed.Score)), 0, 100)
	}
	return result
}

// ReadabilityScore is 100 - 2*avgWordsPerSentence - 3*avgCharsPerWord, clamped to 0..100
func ReadabilityScore(text string) int {
	words := strings.Fields(text)
	if len(words) == 0 {
		return fallbackScore
	}
	sentences := 0
	for _, s := range sentenceSplit.Split(text, -1) {
		if strings.TrimSpace(s) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		sentences = 1
	}

	chars := 0
	for _, w := range words {
		chars += utf8.RuneCountInString(w)
	}
	avgWords := float64(len(words)) / float64(sentences)
	avgChars := float64(chars) / float64(len(words))
	score := 100 - avgWords*2 - avgChars*3
	return clamp(int(math.Round(score)), 0, 100)
}

func promptText(content string) string {
	text := htmltext.Text(content)
	if utf8.RuneCountInString(text) > maxPromptRunes {
		text = string([]rune(text)[:maxPromptRunes])
	}
	return text
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func jsonList(items []string) datatypes.JSON {
	if items == nil {
		items = []string{}
	}
	raw, _ := json.Marshal(items)
	return datatypes.JSON(raw)
}

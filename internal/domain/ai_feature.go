package domain

import (
	"time"

	"gorm.io/datatypes"
)

// AIFeature stores the latest AI analysis of an article
type AIFeature struct {
	ID               string         `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	ArticleID        string         `gorm:"column:article_id;type:varchar(64);not null;uniqueIndex:ai_features_article_idx" json:"article_id"`
	Summary          *string        `gorm:"column:summary;type:text" json:"summary,omitempty"`
	Sentiment        *string        `gorm:"column:sentiment;type:varchar(50)" json:"sentiment,omitempty"`
	SentimentScore   int            `gorm:"column:sentiment_score" json:"sentiment_score"`
	Keywords         datatypes.JSON `gorm:"column:keywords" json:"keywords,omitempty"`
	SuggestedTitles  datatypes.JSON `gorm:"column:suggested_titles" json:"suggested_titles,omitempty"`
	Suggestions      datatypes.JSON `gorm:"column:suggestions" json:"suggestions,omitempty"`
	SEODescription   *string        `gorm:"column:seo_description;type:text" json:"seo_description,omitempty"`
	ReadabilityScore int            `gorm:"column:readability_score" json:"readability_score"`
	CreatedAt        time.Time      `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (AIFeature) TableName() string { return "ai_features" }

// Sentiment labels
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// SentimentResult is the parsed sentiment analysis
type SentimentResult struct {
	Sentiment string `json:"sentiment"`
	Score     int    `json:"score"`
}

// ArticleAnalysis combines every assist output for one article
type ArticleAnalysis struct {
	Summary         string          `json:"summary"`
	SuggestedTitles []string        `json:"suggested_titles"`
	Sentiment       SentimentResult `json:"sentiment"`
	Keywords        []string        `json:"keywords"`
	Suggestions     []string        `json:"suggestions"`
	SEODescription  string          `json:"seo_description"`
	Readability     int             `json:"readability"`
}

// AIContentRequest carries content for the assist endpoints
type AIContentRequest struct {
	Title     string `json:"title" binding:"omitempty,max=500"`
	Content   string `json:"content" binding:"required"`
	MaxLength int    `json:"max_length" binding:"omitempty,min=20,max=2000"`
}

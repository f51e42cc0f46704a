package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ArticleStatus is the editorial state of an article
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusReview    ArticleStatus = "review"
	StatusApproved  ArticleStatus = "approved"
	StatusScheduled ArticleStatus = "scheduled"
	StatusPublished ArticleStatus = "published"
	StatusKilled    ArticleStatus = "killed"
	StatusArchived  ArticleStatus = "archived"
)

// AllStatuses lists every status in workflow order
var AllStatuses = []ArticleStatus{
	StatusDraft, StatusReview, StatusApproved, StatusScheduled,
	StatusPublished, StatusKilled, StatusArchived,
}

// Valid reports whether s is a known status
func (s ArticleStatus) Valid() bool {
	for _, st := range AllStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Article is a news article (مقال)
type Article struct {
	ID              string         `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Title           string         `gorm:"column:title;type:varchar(500);not null" json:"title"`
	Subtitle        *string        `gorm:"column:subtitle;type:varchar(500)" json:"subtitle,omitempty"`
	Slug            string         `gorm:"column:slug;type:varchar(500);uniqueIndex:articles_slug_idx;not null" json:"slug"`
	Content         string         `gorm:"column:content;type:mediumtext;not null" json:"content"`
	Excerpt         *string        `gorm:"column:excerpt;type:text" json:"excerpt,omitempty"`
	AuthorID        string         `gorm:"column:author_id;type:varchar(64);index:articles_author_idx;not null" json:"author_id"`
	CategoryID      *string        `gorm:"column:category_id;type:varchar(64);index:articles_category_idx" json:"category_id,omitempty"`
	Status          ArticleStatus  `gorm:"column:status;type:varchar(20);index:articles_status_idx;default:'draft';not null" json:"status"`
	FeaturedImage   *string        `gorm:"column:featured_image;type:varchar(500)" json:"featured_image,omitempty"`
	Views           int            `gorm:"column:views;default:0" json:"views"`
	Likes           int            `gorm:"column:likes;default:0" json:"likes"`
	IsFeatured      bool           `gorm:"column:is_featured;index:articles_featured_idx;default:false" json:"is_featured"`
	IsBreaking      bool           `gorm:"column:is_breaking;default:false" json:"is_breaking"`
	PublishedAt     *time.Time     `gorm:"column:published_at;index:articles_published_idx" json:"published_at,omitempty"`
	ScheduledAt     *time.Time     `gorm:"column:scheduled_at" json:"scheduled_at,omitempty"`
	SEOTitle        *string        `gorm:"column:seo_title;type:varchar(255)" json:"seo_title,omitempty"`
	SEODescription  *string        `gorm:"column:seo_description;type:text" json:"seo_description,omitempty"`
	SEOKeywords     datatypes.JSON `gorm:"column:seo_keywords" json:"seo_keywords,omitempty"`
	ReadingTime     int            `gorm:"column:reading_time;default:0" json:"reading_time"`
	VideoURL        *string        `gorm:"column:video_url;type:varchar(500)" json:"video_url,omitempty"`
	AudioURL        *string        `gorm:"column:audio_url;type:varchar(500)" json:"audio_url,omitempty"`
	SourceURL       *string        `gorm:"column:source_url;type:varchar(500)" json:"source_url,omitempty"`
	SourceName      *string        `gorm:"column:source_name;type:varchar(255)" json:"source_name,omitempty"`
	CurrentRevision int            `gorm:"column:current_revision;default:1" json:"current_revision"`
	LastEditedBy    *string        `gorm:"column:last_edited_by;type:varchar(64)" json:"last_edited_by,omitempty"`
	CreatedAt       time.Time      `gorm:"column:created_at;index:articles_created_at_idx" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (Article) TableName() string { return "articles" }

// ArticleFilter narrows article listings
type ArticleFilter struct {
	Status     ArticleStatus
	CategoryID string
	AuthorID   string
	Search     string
	Featured   *bool
	Breaking   *bool
}

// CreateArticleRequest is the payload for creating an article
type CreateArticleRequest struct {
	Title          string        `json:"title" binding:"required,max=500"`
	Subtitle       *string       `json:"subtitle" binding:"omitempty,max=500"`
	Slug           string        `json:"slug" binding:"omitempty,max=500"`
	Content        string        `json:"content" binding:"required"`
	Excerpt        *string       `json:"excerpt"`
	CategoryID     *string       `json:"category_id"`
	Status         ArticleStatus `json:"status" binding:"omitempty,articlestatus"`
	FeaturedImage  *string       `json:"featured_image"`
	IsFeatured     bool          `json:"is_featured"`
	IsBreaking     bool          `json:"is_breaking"`
	SEOTitle       *string       `json:"seo_title"`
	SEODescription *string       `json:"seo_description"`
	SEOKeywords    []string      `json:"seo_keywords"`
	VideoURL       *string       `json:"video_url"`
	AudioURL       *string       `json:"audio_url"`
	SourceURL      *string       `json:"source_url"`
	SourceName     *string       `json:"source_name"`
	Tags           []string      `json:"tags" binding:"omitempty,max=20,dive,max=255"`
}

// UpdateArticleRequest is a partial update; nil fields are left untouched
type UpdateArticleRequest struct {
	Title          *string  `json:"title" binding:"omitempty,max=500"`
	Subtitle       *string  `json:"subtitle" binding:"omitempty,max=500"`
	Slug           *string  `json:"slug" binding:"omitempty,max=500"`
	Content        *string  `json:"content"`
	Excerpt        *string  `json:"excerpt"`
	CategoryID     *string  `json:"category_id"`
	FeaturedImage  *string  `json:"featured_image"`
	IsFeatured     *bool    `json:"is_featured"`
	IsBreaking     *bool    `json:"is_breaking"`
	SEOTitle       *string  `json:"seo_title"`
	SEODescription *string  `json:"seo_description"`
	SEOKeywords    []string `json:"seo_keywords"`
	VideoURL       *string  `json:"video_url"`
	AudioURL       *string  `json:"audio_url"`
	SourceURL      *string  `json:"source_url"`
	SourceName     *string  `json:"source_name"`
	EditReason     *string  `json:"edit_reason"`
}

// TouchesContent reports whether the update changes the revisioned fields
func (r *UpdateArticleRequest) TouchesContent() bool {
	return r.Title != nil || r.Content != nil
}

// PublicArticleQuery narrows the public listing
type PublicArticleQuery struct {
	CategorySlug string
	Featured     bool
	Breaking     bool
}

// ArticleStats counts articles by status
type ArticleStats struct {
	Total    int64                   `json:"total"`
	ByStatus map[ArticleStatus]int64 `json:"by_status"`
}

package domain

import "time"

// Tag is a free-form article label
type Tag struct {
	ID          string    `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255);uniqueIndex:tags_name_key;not null" json:"name"`
	Slug        string    `gorm:"column:slug;type:varchar(255);uniqueIndex:tags_slug_idx;not null" json:"slug"`
	Description *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	UsageCount  int       `gorm:"column:usage_count;default:0" json:"usage_count"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Tag) TableName() string { return "tags" }

// ArticleTag links an article to a tag
type ArticleTag struct {
	ArticleID string    `gorm:"column:article_id;type:varchar(64);primaryKey" json:"article_id"`
	TagID     string    `gorm:"column:tag_id;type:varchar(64);primaryKey;index:article_tags_tag_idx" json:"tag_id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ArticleTag) TableName() string { return "article_tags" }

// AddTagRequest attaches a tag by name
type AddTagRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

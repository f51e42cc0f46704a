package domain

import "time"

// EditorialComment is a reviewer annotation on an article, optionally anchored to a content block.
// Comments form a flat list per article and are never hard-deleted.
// Seq numbers the comments of one article from 1.
type EditorialComment struct {
	ID         string     `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	ArticleID  string     `gorm:"column:article_id;type:varchar(64);not null;index:editorial_comments_article_idx;uniqueIndex:editorial_comments_article_seq_uidx,priority:1" json:"article_id"`
	Seq        int        `gorm:"column:seq;not null;uniqueIndex:editorial_comments_article_seq_uidx,priority:2" json:"seq"`
	UserID     string     `gorm:"column:user_id;type:varchar(64);not null;index:editorial_comments_user_idx" json:"user_id"`
	BlockID    *string    `gorm:"column:block_id;type:varchar(64);index:editorial_comments_block_idx" json:"block_id,omitempty"`
	Content    string     `gorm:"column:content;type:text;not null" json:"content"`
	IsResolved bool       `gorm:"column:is_resolved;default:false;index:editorial_comments_resolved_idx" json:"is_resolved"`
	ResolvedBy *string    `gorm:"column:resolved_by;type:varchar(64)" json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `gorm:"column:resolved_at" json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (EditorialComment) TableName() string { return "editorial_comments" }

// AddEditorialCommentRequest attaches a comment to an article
type AddEditorialCommentRequest struct {
	BlockID *string `json:"block_id" binding:"omitempty,max=64"`
	Content string  `json:"content" binding:"required,max=5000"`
}

package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ArticleRevision is an immutable snapshot of an article's editable fields.
// Rows are only ever appended; (article_id, revision_number) is unique.
type ArticleRevision struct {
	ID             string         `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	ArticleID      string         `gorm:"column:article_id;type:varchar(64);not null;uniqueIndex:article_revisions_revision_idx,priority:1" json:"article_id"`
	RevisionNumber int            `gorm:"column:revision_number;not null;uniqueIndex:article_revisions_revision_idx,priority:2" json:"revision_number"`
	Title          string         `gorm:"column:title;type:varchar(500);not null" json:"title"`
	Subtitle       *string        `gorm:"column:subtitle;type:varchar(500)" json:"subtitle,omitempty"`
	Content        string         `gorm:"column:content;type:mediumtext;not null" json:"content"`
	Excerpt        *string        `gorm:"column:excerpt;type:text" json:"excerpt,omitempty"`
	Changes        datatypes.JSON `gorm:"column:changes" json:"changes,omitempty"`
	EditedBy       string         `gorm:"column:edited_by;type:varchar(64);not null" json:"edited_by"`
	EditReason     *string        `gorm:"column:edit_reason;type:text" json:"edit_reason,omitempty"`
	CreatedAt      time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (ArticleRevision) TableName() string { return "article_revisions" }

// Edit reasons recorded by the system
const (
	EditReasonInitial = "نسخة أولية"
	EditReasonUpdate  = "تحديث"
)

// CreateRevisionRequest snapshots the live article with a free-form change set
type CreateRevisionRequest struct {
	Changes    map[string]interface{} `json:"changes"`
	EditReason string                 `json:"edit_reason" binding:"required,max=1000"`
}

package domain

import "time"

// WorkflowHistory is one status transition of an article. Append-only.
// Seq numbers the transitions of one article from 1 and breaks created_at ties.
type WorkflowHistory struct {
	ID         string        `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	ArticleID  string        `gorm:"column:article_id;type:varchar(64);not null;index:workflow_history_article_idx;uniqueIndex:workflow_history_article_seq_uidx,priority:1" json:"article_id"`
	Seq        int           `gorm:"column:seq;not null;uniqueIndex:workflow_history_article_seq_uidx,priority:2" json:"seq"`
	FromStatus ArticleStatus `gorm:"column:from_status;type:varchar(20);not null" json:"from_status"`
	ToStatus   ArticleStatus `gorm:"column:to_status;type:varchar(20);not null;index:workflow_history_status_idx" json:"to_status"`
	UserID     string        `gorm:"column:user_id;type:varchar(64);not null;index:workflow_history_user_idx" json:"user_id"`
	Comment    *string       `gorm:"column:comment;type:text" json:"comment,omitempty"`
	CreatedAt  time.Time     `gorm:"column:created_at" json:"created_at"`
}

func (WorkflowHistory) TableName() string { return "workflow_history" }

// Comments written by the system on convenience transitions
const (
	WorkflowCommentPublish          = "نشر المقال"
	WorkflowCommentScheduledPublish = "نشر مجدول"
)

// ChangeStatusRequest moves an article to another status
type ChangeStatusRequest struct {
	Status  ArticleStatus `json:"status" binding:"required,articlestatus"`
	Comment *string       `json:"comment" binding:"omitempty,max=2000"`
}

// ScheduleRequest schedules an article for publication
type ScheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Comment     *string   `json:"comment" binding:"omitempty,max=2000"`
}


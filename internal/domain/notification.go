package domain

import "time"

// NotificationType classifies a notification
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// Notification is a message for a dashboard user (إشعار)
type Notification struct {
	ID        string           `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	UserID    string           `gorm:"column:user_id;type:varchar(64);not null;index:notifications_user_idx" json:"user_id"`
	Title     string           `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Message   string           `gorm:"column:message;type:text;not null" json:"message"`
	Type      NotificationType `gorm:"column:type;type:varchar(20);default:'info';not null" json:"type"`
	ArticleID *string          `gorm:"column:article_id;type:varchar(64)" json:"article_id,omitempty"`
	IsRead    bool             `gorm:"column:is_read;default:false;index:notifications_read_idx" json:"is_read"`
	CreatedAt time.Time        `gorm:"column:created_at" json:"created_at"`
}

func (Notification) TableName() string { return "notifications" }

// NotificationSummary is the unread badge count
type NotificationSummary struct {
	TotalUnread int64 `json:"total_unread"`
}

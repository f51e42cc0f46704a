package domain

import "time"

// Media is an uploaded image
type Media struct {
	ID         string    `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Filename   string    `gorm:"column:filename;type:varchar(255);not null" json:"filename"`
	Key        string    `gorm:"column:storage_key;type:varchar(500)" json:"key"`
	URL        string    `gorm:"column:url;type:varchar(500);not null" json:"url"`
	MimeType   string    `gorm:"column:mime_type;type:varchar(100);index:media_mime_idx" json:"mime_type"`
	Size       int64     `gorm:"column:size" json:"size"`
	UploaderID string    `gorm:"column:uploader_id;type:varchar(64);not null;index:media_uploader_idx" json:"uploader_id"`
	Alt        *string   `gorm:"column:alt;type:text" json:"alt,omitempty"`
	Caption    *string   `gorm:"column:caption;type:text" json:"caption,omitempty"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Media) TableName() string { return "media" }

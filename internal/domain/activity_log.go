package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog records a mutating dashboard request
type ActivityLog struct {
	ID         string         `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	UserID     string         `gorm:"column:user_id;type:varchar(64);not null;index:activity_logs_user_idx" json:"user_id"`
	Action     string         `gorm:"column:action;type:varchar(100);not null;index:activity_logs_action_idx" json:"action"`
	EntityType *string        `gorm:"column:entity_type;type:varchar(50);index:activity_logs_entity_idx,priority:1" json:"entity_type,omitempty"`
	EntityID   *string        `gorm:"column:entity_id;type:varchar(64);index:activity_logs_entity_idx,priority:2" json:"entity_id,omitempty"`
	Details    datatypes.JSON `gorm:"column:details" json:"details,omitempty"`
	IPAddress  string         `gorm:"column:ip_address;type:varchar(45)" json:"ip_address"`
	UserAgent  string         `gorm:"column:user_agent;type:text" json:"user_agent"`
	CreatedAt  time.Time      `gorm:"column:created_at" json:"created_at"`
}

func (ActivityLog) TableName() string { return "activity_logs" }

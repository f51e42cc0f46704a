package domain

import "time"

// Category groups articles (قسم)
type Category struct {
	ID           string    `gorm:"column:id;type:varchar(64);primaryKey" json:"id"`
	Name         string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Slug         string    `gorm:"column:slug;type:varchar(255);uniqueIndex:categories_slug_idx;not null" json:"slug"`
	Description  *string   `gorm:"column:description;type:text" json:"description,omitempty"`
	IconURL      *string   `gorm:"column:icon_url;type:varchar(500)" json:"icon_url,omitempty"`
	HeroImage    *string   `gorm:"column:hero_image;type:varchar(500)" json:"hero_image,omitempty"`
	Color        *string   `gorm:"column:color;type:varchar(50)" json:"color,omitempty"`
	ParentID     *string   `gorm:"column:parent_id;type:varchar(64);index:categories_parent_idx" json:"parent_id,omitempty"`
	DisplayOrder int       `gorm:"column:display_order;default:0" json:"display_order"`
	IsActive     bool      `gorm:"column:is_active;not null;index:categories_active_idx" json:"is_active"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

// CategoryRequest creates or updates a category
type CategoryRequest struct {
	Name         string  `json:"name" binding:"required,max=255"`
	Slug         string  `json:"slug" binding:"omitempty,max=255"`
	Description  *string `json:"description"`
	IconURL      *string `json:"icon_url"`
	HeroImage    *string `json:"hero_image"`
	Color        *string `json:"color" binding:"omitempty,max=50"`
	ParentID     *string `json:"parent_id"`
	DisplayOrder int     `json:"display_order"`
	IsActive     *bool   `json:"is_active"`
}

// CategoryStats counts categories
type CategoryStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

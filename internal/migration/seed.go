package migration

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nabaa/newsroom/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BcryptCost is the password hashing cost used across the application
const BcryptCost = 12

type seedCategory struct {
	Name        string
	Slug        string
	Description string
	Color       string
}

var defaultCategories = []seedCategory{
	{"محليات", "local", "الأخبار المحلية", "#3B82F6"},
	{"عالمية", "world", "الأخبار العالمية", "#10B981"},
	{"اقتصاد", "economy", "الأخبار الاقتصادية", "#F59E0B"},
	{"رياضة", "sports", "الأخبار الرياضية", "#EF4444"},
	{"تقنية", "tech", "أخبار التقنية والتكنولوجيا", "#8B5CF6"},
	{"صحة", "health", "الأخبار الصحية", "#EC4899"},
	{"ثقافة", "culture", "الأخبار الثقافية", "#14B8A6"},
	{"منوعات", "misc", "أخبار منوعة", "#6B7280"},
}

// SeedCategories inserts the default sections whose slug is not taken yet.
// Returns the number of rows inserted.
func SeedCategories(db *gorm.DB) (int, error) {
	inserted := 0
	now := time.Now()
	for i, c := range defaultCategories {
		var count int64
		if err := db.Model(&domain.Category{}).Where("slug = ?", c.Slug).Count(&count).Error; err != nil {
			return inserted, err
		}
		if count > 0 {
			continue
		}

		description, color := c.Description, c.Color
		category := &domain.Category{
			ID:           uuid.New().String(),
			Name:         c.Name,
			Slug:         c.Slug,
			Description:  &description,
			Color:        &color,
			DisplayOrder: len(defaultCategories) - i,
			IsActive:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := db.Create(category).Error; err != nil {
			return inserted, fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
		inserted++
	}
	return inserted, nil
}

// EnsureAdmin creates an active admin account, or promotes and reactivates
// the existing account with that email. The password is only set on creation.
func EnsureAdmin(db *gorm.DB, email, password, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, errors.New("admin email is required")
	}

	var user domain.User
	err := db.Where("LOWER(email) = ?", email).First(&user).Error
	if err == nil {
		user.Role = domain.RoleAdmin
		user.IsActive = true
		if err := db.Save(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if len(password) < 8 {
		return nil, errors.New("admin password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "مدير النظام"
	}

	user = domain.User{
		ID:          uuid.New().String(),
		Name:        name,
		Email:       email,
		Password:    string(hash),
		LoginMethod: "password",
		Role:        domain.RoleAdmin,
		IsActive:    true,
		CreatedAt:   time.Now(),
	}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

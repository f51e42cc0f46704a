package migration

import (
	"github.com/nabaa/newsroom/internal/domain"
	"gorm.io/gorm"
)

// Models lists every table owned by the application, in creation order
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Category{},
		&domain.Article{},
		&domain.ArticleRevision{},
		&domain.WorkflowHistory{},
		&domain.EditorialComment{},
		&domain.Tag{},
		&domain.ArticleTag{},
		&domain.Media{},
		&domain.AIFeature{},
		&domain.Notification{},
		&domain.ActivityLog{},
	}
}

// Run executes AutoMigrate for all tables. Existing tables are altered, never dropped.
func Run(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

package migration

import (
	"testing"

	"github.com/nabaa/newsroom/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, Run(db))
	return db
}

func TestRun_CreatesTables(t *testing.T) {
	db := openDB(t)
	for _, table := range []string{"articles", "article_revisions", "workflow_history", "editorial_comments", "users", "categories"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	// idempotent
	require.NoError(t, Run(db))
}

func TestSeedCategories_Idempotent(t *testing.T) {
	db := openDB(t)

	n, err := SeedCategories(db)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	n, err = SeedCategories(db)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	var local domain.Category
	require.NoError(t, db.Where("slug = ?", "local").First(&local).Error)
	assert.Equal(t, "محليات", local.Name)
	assert.True(t, local.IsActive)
}

func TestEnsureAdmin(t *testing.T) {
	db := openDB(t)

	admin, err := EnsureAdmin(db, "Admin@Example.com", "supersecret", "")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)
	assert.Equal(t, "admin@example.com", admin.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("supersecret")))

	_, err = EnsureAdmin(db, "other@example.com", "short", "")
	assert.Error(t, err)

	// existing account is promoted, password untouched
	require.NoError(t, db.Model(&domain.User{}).Where("id = ?", admin.ID).
		Updates(map[string]interface{}{"role": domain.RoleWriter, "is_active": false}).Error)
	again, err := EnsureAdmin(db, "admin@example.com", "", "")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, again.ID)
	assert.Equal(t, domain.RoleAdmin, again.Role)
	assert.True(t, again.IsActive)
}

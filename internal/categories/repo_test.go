package categories

import (
	"context"
	"testing"

	"github.com/classwish/classwish-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupCategoriesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{`
CREATE TABLE IF NOT EXISTS categories (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  slug TEXT NOT NULL UNIQUE,
  created_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS project_categories (
  project_id TEXT NOT NULL,
  category_id TEXT NOT NULL,
  PRIMARY KEY (project_id, category_id)
);`}

	for _, stmt := range ddl {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func TestListReturnsCategoriesByName(t *testing.T) {
	conn := setupCategoriesTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	for _, name := range []string{"Technology", "Art Supplies", "Books"} {
		require.NoError(t, conn.Create(&models.Category{
			ID:   uuid.New(),
			Name: name,
			Slug: name,
		}).Error)
	}

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Art Supplies", items[0].Name)
	assert.Equal(t, "Books", items[1].Name)
	assert.Equal(t, "Technology", items[2].Name)
}

func TestListForProjectFiltersByJoin(t *testing.T) {
	conn := setupCategoriesTestDB(t)
	repo := NewRepository(conn)
	ctx := context.Background()

	tech := &models.Category{ID: uuid.New(), Name: "Technology", Slug: "technology"}
	books := &models.Category{ID: uuid.New(), Name: "Books", Slug: "books"}
	require.NoError(t, conn.Create(tech).Error)
	require.NoError(t, conn.Create(books).Error)

	projectID := uuid.New()
	require.NoError(t, conn.Create(&models.ProjectCategory{
		ProjectID:  projectID,
		CategoryID: tech.ID,
	}).Error)

	items, err := repo.ListForProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Technology", items[0].Name)

	none, err := repo.ListForProject(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, none)
}

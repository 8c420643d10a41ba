package repository

import (
	"context"
	"testing"

	"libmanage/database/dbtest"
	"libmanage/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCategoryRepository_Ancestors(t *testing.T) {
	db := dbtest.New(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	root := &models.Category{Name: "Science"}
	require.NoError(t, repo.Create(ctx, root))
	child := &models.Category{Name: "Physics", ParentID: &root.ID}
	require.NoError(t, repo.Create(ctx, child))
	leaf := &models.Category{Name: "Optics", ParentID: &child.ID}
	require.NoError(t, repo.Create(ctx, leaf))

	chain, err := repo.Ancestors(ctx, leaf.ID)
	require.NoError(t, err)
	require.Len(t, chain, 3)
	assert.Equal(t, "Optics", chain[0].Name)
	assert.Equal(t, "Physics", chain[1].Name)
	assert.Equal(t, "Science", chain[2].Name)

	_, err = repo.Ancestors(ctx, 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCategoryRepository_AncestorsDetectsCycle(t *testing.T) {
	db := dbtest.New(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	a := &models.Category{Name: "A"}
	require.NoError(t, repo.Create(ctx, a))
	b := &models.Category{Name: "B", ParentID: &a.ID}
	require.NoError(t, repo.Create(ctx, b))

	// corrupt the chain behind the service's back
	require.NoError(t, db.Model(&models.Category{}).Where("id = ?", a.ID).Update("parent_id", b.ID).Error)

	_, err := repo.Ancestors(ctx, b.ID)
	assert.ErrorIs(t, err, ErrCategoryCycle)
}

func TestCategoryRepository_Delete(t *testing.T) {
	db := dbtest.New(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	root := &models.Category{Name: "Arts"}
	require.NoError(t, repo.Create(ctx, root))
	mid := &models.Category{Name: "Music"}
	mid.ParentID = &root.ID
	require.NoError(t, repo.Create(ctx, mid))
	leaf := &models.Category{Name: "Jazz", ParentID: &mid.ID}
	require.NoError(t, repo.Create(ctx, leaf))

	book := seedBook(t, db, "Blue Train", 1, 1)
	book.CategoryID = &mid.ID
	require.NoError(t, NewBookRepository(db).Update(ctx, book))

	require.NoError(t, repo.Delete(ctx, mid.ID))

	got, err := repo.GetByID(ctx, leaf.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, root.ID, *got.ParentID)

	assert.Nil(t, reloadBook(t, db, book.ID).CategoryID)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	assert.ErrorIs(t, repo.Delete(ctx, mid.ID), gorm.ErrRecordNotFound)
}

func TestCategoryRepository_Update(t *testing.T) {
	db := dbtest.New(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	c := &models.Category{Name: "History"}
	require.NoError(t, repo.Create(ctx, c))

	c.Name = "World History"
	require.NoError(t, repo.Update(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "World History", got.Name)

	assert.ErrorIs(t, repo.Update(ctx, &models.Category{ID: 404, Name: "x"}), gorm.ErrRecordNotFound)
}

func TestCategoryRepository_UpdateRejectsCycle(t *testing.T) {
	db := dbtest.New(t)
	repo := NewCategoryRepository(db)
	ctx := context.Background()

	root := &models.Category{Name: "Science"}
	require.NoError(t, repo.Create(ctx, root))
	child := &models.Category{Name: "Physics", ParentID: &root.ID}
	require.NoError(t, repo.Create(ctx, child))
	leaf := &models.Category{Name: "Optics", ParentID: &child.ID}
	require.NoError(t, repo.Create(ctx, leaf))

	t.Run("parent is a descendant", func(t *testing.T) {
		err := repo.Update(ctx, &models.Category{ID: root.ID, Name: "Science", ParentID: &leaf.ID})
		assert.ErrorIs(t, err, ErrCategoryCycle)

		got, err := repo.GetByID(ctx, root.ID)
		require.NoError(t, err)
		assert.Nil(t, got.ParentID)
	})

	t.Run("parent is itself", func(t *testing.T) {
		err := repo.Update(ctx, &models.Category{ID: child.ID, Name: "Physics", ParentID: &child.ID})
		assert.ErrorIs(t, err, ErrCategoryCycle)
	})

	t.Run("unknown parent", func(t *testing.T) {
		missing := int64(999)
		err := repo.Update(ctx, &models.Category{ID: child.ID, Name: "Physics", ParentID: &missing})
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("opposing moves", func(t *testing.T) {
		a := &models.Category{Name: "A"}
		require.NoError(t, repo.Create(ctx, a))
		b := &models.Category{Name: "B"}
		require.NoError(t, repo.Create(ctx, b))

		require.NoError(t, repo.Update(ctx, &models.Category{ID: a.ID, Name: "A", ParentID: &b.ID}))
		err := repo.Update(ctx, &models.Category{ID: b.ID, Name: "B", ParentID: &a.ID})
		assert.ErrorIs(t, err, ErrCategoryCycle)

		chain, err := repo.Ancestors(ctx, a.ID)
		require.NoError(t, err)
		assert.Len(t, chain, 2)
	})
}

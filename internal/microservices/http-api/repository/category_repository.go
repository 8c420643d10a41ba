package repository

import (
	"context"
	"fmt"

	"libmanage/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxCategoryDepth bounds parent walks so a corrupted chain cannot loop forever.
const maxCategoryDepth = 64

type CategoryRepository interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id int64) error
	// Ancestors returns the category followed by its parents up to the root.
	Ancestors(ctx context.Context, id int64) ([]models.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *models.Category) error {
	if err := r.db.WithContext(ctx).Omit("Parent").Create(c).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var list []models.Category
	if err := r.db.WithContext(ctx).Order("name ASC, id ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return list, nil
}

// Update rewrites a category. The parent chain is walked and locked in the
// same transaction as the write, so two concurrent re-parents cannot close a
// loop between them.
func (r *categoryRepository) Update(ctx context.Context, c *models.Category) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Category
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, c.ID).Error; err != nil {
			return err
		}
		if c.ParentID != nil {
			locked := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Session(&gorm.Session{})
			chain, err := ancestors(locked, *c.ParentID)
			if err != nil {
				return err
			}
			for _, a := range chain {
				if a.ID == c.ID {
					return ErrCategoryCycle
				}
			}
		}

		res := tx.Model(&models.Category{}).
			Where("id = ?", c.ID).
			Updates(map[string]any{
				"name":        c.Name,
				"code":        c.Code,
				"parent_id":   c.ParentID,
				"description": c.Description,
			})
		if res.Error != nil {
			return fmt.Errorf("update category: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	return classifyTxError(err)
}

// Delete removes a category. Books in it become uncategorised and its
// children are re-attached to its own parent.
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Category
		if err := tx.First(&c, id).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Book{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error; err != nil {
			return fmt.Errorf("detach books: %w", err)
		}
		if err := tx.Model(&models.Category{}).
			Where("parent_id = ?", id).
			Update("parent_id", c.ParentID).Error; err != nil {
			return fmt.Errorf("reparent children: %w", err)
		}
		if err := tx.Delete(&models.Category{}, id).Error; err != nil {
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}

func (r *categoryRepository) Ancestors(ctx context.Context, id int64) ([]models.Category, error) {
	return ancestors(r.db.WithContext(ctx), id)
}

func ancestors(db *gorm.DB, id int64) ([]models.Category, error) {
	chain := make([]models.Category, 0, 4)
	seen := make(map[int64]bool)
	next := &id

	for next != nil {
		if seen[*next] || len(chain) >= maxCategoryDepth {
			return nil, ErrCategoryCycle
		}
		seen[*next] = true

		var c models.Category
		if err := db.First(&c, *next).Error; err != nil {
			return nil, fmt.Errorf("walk category %d: %w", *next, err)
		}
		chain = append(chain, c)
		next = c.ParentID
	}
	return chain, nil
}

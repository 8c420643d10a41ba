package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"libmanage/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

// BookFilter narrows a catalog search. Query matches title, author or isbn
// case-insensitively; the three are OR-combined.
type BookFilter struct {
	Query         string
	CategoryID    *int64
	AvailableOnly bool
	Page          int
	PageSize      int
}

type BookRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Search(ctx context.Context, f BookFilter) ([]models.Book, int64, error)
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, b *models.Book) error
	Delete(ctx context.Context, id int64) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).Preload("Category").First(&b, id).Error; err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	return &b, nil
}

// likeEscaper makes user input match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *bookRepository) filtered(ctx context.Context, f BookFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Book{})
	if s := strings.ToLower(strings.TrimSpace(f.Query)); s != "" {
		p := "%" + likeEscaper.Replace(s) + "%"
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(author) LIKE ? ESCAPE '\' OR LOWER(isbn) LIKE ? ESCAPE '\')`, p, p, p)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.AvailableOnly {
		q = q.Where("available > 0")
	}
	return q
}

func (r *bookRepository) Search(ctx context.Context, f BookFilter) ([]models.Book, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	page, pageSize := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var list []models.Book
	if err := r.filtered(ctx, f).
		Preload("Category").
		Order("title ASC, id ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("search books: %w", err)
	}
	return list, total, nil
}

func (r *bookRepository) Create(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Omit("Category").Create(b).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// Update rewrites the descriptive fields and quantity. Available shifts by the
// quantity delta in the same statement so concurrent loans are never lost;
// the update is refused when more copies are on loan than the new quantity.
func (r *bookRepository) Update(ctx context.Context, b *models.Book) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Book{}).
			Where("id = ? AND available + (? - quantity) >= 0", b.ID, b.Quantity).
			Updates(map[string]any{
				"title":       b.Title,
				"author":      b.Author,
				"category_id": b.CategoryID,
				"isbn":        b.ISBN,
				"description": b.Description,
				"available":   gorm.Expr("available + (? - quantity)", b.Quantity),
				"quantity":    b.Quantity,
			})
		if res.Error != nil {
			return fmt.Errorf("update book: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Book{}).Where("id = ?", b.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
			return ErrQuantityBelowOnLoan
		}
		return tx.Preload("Category").First(b, b.ID).Error
	})
	return classifyTxError(err)
}

// Delete removes a book together with its ledger rows, comments and
// recommendations. Notifications survive with related_book_id cleared.
func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Book
		if err := tx.Select("id").First(&b, id).Error; err != nil {
			return err
		}

		dependents := []any{
			&models.BookBorrowing{},
			&models.BookReturn{},
			&models.BookReservation{},
			&models.BookComment{},
			&models.BookRecommendation{},
		}
		for _, m := range dependents {
			if err := tx.Where("book_id = ?", id).Delete(m).Error; err != nil {
				return fmt.Errorf("delete %T rows: %w", m, err)
			}
		}

		if err := tx.Model(&models.Notification{}).
			Where("related_book_id = ?", id).
			Update("related_book_id", nil).Error; err != nil {
			return fmt.Errorf("detach notifications: %w", err)
		}

		if err := tx.Delete(&models.Book{}, id).Error; err != nil {
			return fmt.Errorf("delete book: %w", err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return classifyTxError(err)
	}
	return err
}

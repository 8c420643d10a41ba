package service

import (
	"context"
	"strings"

	"libmanage/internal/microservices/http-api/models"
	"libmanage/internal/microservices/http-api/repository"
)

// BookInput carries the writable fields of a book. Available is only honoured
// on create; updates shift it by the quantity delta.
type BookInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Author      string `json:"author" validate:"required,max=200"`
	ISBN        string `json:"isbn" validate:"required,max=13"`
	CategoryID  *int64 `json:"category_id"`
	Quantity    int    `json:"quantity" validate:"min=0"`
	Available   *int   `json:"available" validate:"omitempty,min=0"`
	Description string `json:"description"`
}

type CategoryInput struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Code        *string `json:"code" validate:"omitempty,max=50"`
	ParentID    *int64  `json:"parent_id"`
	Description string  `json:"description"`
}

type CatalogService interface {
	GetBook(ctx context.Context, id int64) (*models.Book, error)
	SearchBooks(ctx context.Context, f repository.BookFilter) ([]models.Book, int64, error)
	CreateBook(ctx context.Context, in BookInput) (*models.Book, error)
	UpdateBook(ctx context.Context, id int64, in BookInput) (*models.Book, error)
	DeleteBook(ctx context.Context, id int64) error

	GetCategory(ctx context.Context, id int64) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	// CategoryPath renders the chain from the root, e.g. "Science / Physics / Optics".
	CategoryPath(ctx context.Context, id int64) (string, error)
}

type catalogService struct {
	books      repository.BookRepository
	categories repository.CategoryRepository
	validator  *Validator
}

func NewCatalogService(books repository.BookRepository, categories repository.CategoryRepository, v *Validator) CatalogService {
	if v == nil {
		v = NewValidator()
	}
	return &catalogService{books: books, categories: categories, validator: v}
}

func (s *catalogService) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	b, err := s.books.GetByID(ctx, id)
	return b, translate(err)
}

func (s *catalogService) SearchBooks(ctx context.Context, f repository.BookFilter) ([]models.Book, int64, error) {
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	list, total, err := s.books.Search(ctx, f)
	return list, total, translate(err)
}

func (s *catalogService) CreateBook(ctx context.Context, in BookInput) (*models.Book, error) {
	if err := s.validateBook(in); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	available := in.Quantity
	if in.Available != nil {
		available = *in.Available
	}
	b := &models.Book{
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		ISBN:        strings.TrimSpace(in.ISBN),
		CategoryID:  in.CategoryID,
		Quantity:    in.Quantity,
		Available:   available,
		Description: in.Description,
	}
	if err := s.books.Create(ctx, b); err != nil {
		return nil, translate(err)
	}
	return b, nil
}

func (s *catalogService) UpdateBook(ctx context.Context, id int64, in BookInput) (*models.Book, error) {
	if err := s.validateBook(in); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	b := &models.Book{
		ID:          id,
		Title:       strings.TrimSpace(in.Title),
		Author:      strings.TrimSpace(in.Author),
		ISBN:        strings.TrimSpace(in.ISBN),
		CategoryID:  in.CategoryID,
		Quantity:    in.Quantity,
		Description: in.Description,
	}
	if err := s.books.Update(ctx, b); err != nil {
		return nil, translate(err)
	}
	return b, nil
}

func (s *catalogService) DeleteBook(ctx context.Context, id int64) error {
	return translate(s.books.Delete(ctx, id))
}

func (s *catalogService) validateBook(in BookInput) error {
	if err := s.validator.Validate(in); err != nil {
		return err
	}
	if in.Available != nil && *in.Available > in.Quantity {
		return &ValidationError{Fields: map[string]string{"available": "must not exceed quantity"}}
	}
	return nil
}

func (s *catalogService) checkCategory(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	_, err := s.categories.GetByID(ctx, *id)
	return translate(err)
}

func (s *catalogService) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	return c, translate(err)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	list, err := s.categories.List(ctx)
	return list, translate(err)
}

func (s *catalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	if in.ParentID != nil {
		if _, err := s.categories.GetByID(ctx, *in.ParentID); err != nil {
			return nil, translate(err)
		}
	}

	c := &models.Category{
		Name:        strings.TrimSpace(in.Name),
		Code:        in.Code,
		ParentID:    in.ParentID,
		Description: in.Description,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, translate(err)
	}
	return c, nil
}

// UpdateCategory rejects a parent that is the category itself or one of its
// descendants. The repository checks the chain inside the update transaction.
func (s *catalogService) UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*models.Category, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	c := &models.Category{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Code:        in.Code,
		ParentID:    in.ParentID,
		Description: in.Description,
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, translate(err)
	}
	return s.GetCategory(ctx, id)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id int64) error {
	return translate(s.categories.Delete(ctx, id))
}

func (s *catalogService) CategoryPath(ctx context.Context, id int64) (string, error) {
	chain, err := s.categories.Ancestors(ctx, id)
	if err != nil {
		return "", translate(err)
	}
	names := make([]string, len(chain))
	for i, c := range chain {
		names[len(chain)-1-i] = c.Name
	}
	return strings.Join(names, " / "), nil
}

package dto

import (
	"time"

	"libmanage/internal/microservices/http-api/models"
)

// BookResponse is the catalog view of a book
type BookResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ISBN        string    `json:"isbn"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	Category    string    `json:"category,omitempty"`
	Quantity    int       `json:"quantity"`
	Available   int       `json:"available"`
	OnLoan      int       `json:"on_loan"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SearchBooksQuery binds GET /api/books query parameters
type SearchBooksQuery struct {
	Query         string `form:"q"`
	CategoryID    *int64 `form:"category_id"`
	AvailableOnly bool   `form:"available"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size"`
}

func FromBook(b models.Book) BookResponse {
	resp := BookResponse{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		CategoryID:  b.CategoryID,
		Quantity:    b.Quantity,
		Available:   b.Available,
		OnLoan:      b.OnLoan(),
		Description: b.Description,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.Category != nil {
		resp.Category = b.Category.Name
	}
	return resp
}

func FromBooks(list []models.Book) []BookResponse {
	out := make([]BookResponse, 0, len(list))
	for _, b := range list {
		out = append(out, FromBook(b))
	}
	return out
}

// CategoryResponse adds the rendered root-ward path to a category
type CategoryResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Code        *string `json:"code,omitempty"`
	ParentID    *int64  `json:"parent_id,omitempty"`
	Description string  `json:"description,omitempty"`
	Path        string  `json:"path,omitempty"`
}

func FromCategory(c models.Category, path string) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Code:        c.Code,
		ParentID:    c.ParentID,
		Description: c.Description,
		Path:        path,
	}
}

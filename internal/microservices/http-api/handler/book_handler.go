package handler

import (
	"context"
	"net/http"

	"libmanage/internal/microservices/http-api/dto"
	"libmanage/internal/microservices/http-api/middleware"
	"libmanage/internal/microservices/http-api/repository"
	"libmanage/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type BookHandler struct {
	catalog service.CatalogService
}

func NewBookHandler(catalog service.CatalogService) *BookHandler {
	return &BookHandler{catalog: catalog}
}

// RegisterRoutes mounts the catalog under rg. Reads are open to any
// authenticated user; writes need the admin role.
func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	books := rg.Group("/books")
	books.GET("", h.Search)
	books.GET("/:book_id", h.Get)
	books.POST("", middleware.RequireAdmin(), h.Create)
	books.PUT("/:book_id", middleware.RequireAdmin(), h.Update)
	books.DELETE("/:book_id", middleware.RequireAdmin(), h.Delete)

	categories := rg.Group("/categories")
	categories.GET("", h.ListCategories)
	categories.GET("/:category_id", h.GetCategory)
	categories.POST("", middleware.RequireAdmin(), h.CreateCategory)
	categories.PUT("/:category_id", middleware.RequireAdmin(), h.UpdateCategory)
	categories.DELETE("/:category_id", middleware.RequireAdmin(), h.DeleteCategory)
}

// Search lists books matching ?q= against title, author or isbn
// GET /api/books
func (h *BookHandler) Search(c *gin.Context) {
	var q dto.SearchBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = 20
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, total, err := h.catalog.SearchBooks(ctx, repository.BookFilter{
		Query:         q.Query,
		CategoryID:    q.CategoryID,
		AvailableOnly: q.AvailableOnly,
		Page:          q.Page,
		PageSize:      q.PageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": dto.FromBooks(list),
		"pagination": gin.H{
			"page":      q.Page,
			"page_size": q.PageSize,
			"total":     total,
		},
	})
}

// GET /api/books/:book_id
func (h *BookHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	book, err := h.catalog.GetBook(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBook(*book))
}

// POST /api/books
func (h *BookHandler) Create(c *gin.Context) {
	var in service.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	book, err := h.catalog.CreateBook(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromBook(*book))
}

// PUT /api/books/:book_id
func (h *BookHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "book_id")
	if !ok {
		return
	}
	var in service.BookInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	book, err := h.catalog.UpdateBook(ctx, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromBook(*book))
}

// DELETE /api/books/:book_id
func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.catalog.DeleteBook(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/categories
func (h *BookHandler) ListCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, err := h.catalog.ListCategories(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.CategoryResponse, 0, len(list))
	for _, cat := range list {
		resp = append(resp, dto.FromCategory(cat, ""))
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GET /api/categories/:category_id
func (h *BookHandler) GetCategory(c *gin.Context) {
	id, ok := paramID(c, "category_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cat, err := h.catalog.GetCategory(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	path, err := h.catalog.CategoryPath(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCategory(*cat, path))
}

// POST /api/categories
func (h *BookHandler) CreateCategory(c *gin.Context) {
	var in service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cat, err := h.catalog.CreateCategory(ctx, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.FromCategory(*cat, ""))
}

// PUT /api/categories/:category_id
func (h *BookHandler) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "category_id")
	if !ok {
		return
	}
	var in service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	cat, err := h.catalog.UpdateCategory(ctx, id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromCategory(*cat, ""))
}

// DELETE /api/categories/:category_id
func (h *BookHandler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "category_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	if err := h.catalog.DeleteCategory(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

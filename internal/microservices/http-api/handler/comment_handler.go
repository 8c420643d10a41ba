package handler

import (
	"context"
	"net/http"

	"libmanage/internal/microservices/http-api/dto"
	"libmanage/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// RegisterRoutes registers comment and recommendation routes under a book
func (h *CommentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	book := rg.Group("/books/:book_id")
	book.GET("/comments", h.ListComments)
	book.POST("/comments", h.AddComment)
	book.GET("/recommendations", h.ListRecommendations)
	book.POST("/recommendations", h.Recommend)
}

// POST /api/books/:book_id/comments
func (h *CommentHandler) AddComment(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}
	var req dto.CreateCommentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	comment, err := h.commentService.AddComment(ctx, userID, bookID, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// GET /api/books/:book_id/comments
func (h *CommentHandler) ListComments(c *gin.Context) {
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, err := h.commentService.ListComments(ctx, bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

// POST /api/books/:book_id/recommendations
func (h *CommentHandler) Recommend(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}
	var req dto.CreateRecommendationDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	rec, err := h.commentService.Recommend(ctx, userID, bookID, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// GET /api/books/:book_id/recommendations
func (h *CommentHandler) ListRecommendations(c *gin.Context) {
	bookID, ok := paramID(c, "book_id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	list, err := h.commentService.ListRecommendations(ctx, bookID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": list})
}

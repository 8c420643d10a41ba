package service

import (
	"context"
	"strings"
	"time"

	"libmanage/internal/microservices/http-api/models"
	"libmanage/internal/microservices/http-api/repository"
)

type CommentService interface {
	AddComment(ctx context.Context, userID string, bookID int64, text string) (*models.BookComment, error)
	ListComments(ctx context.Context, bookID int64) ([]models.BookComment, error)
	Recommend(ctx context.Context, userID string, bookID int64, reason string) (*models.BookRecommendation, error)
	ListRecommendations(ctx context.Context, bookID int64) ([]models.BookRecommendation, error)
}

type commentService struct {
	comments repository.CommentRepository
	books    repository.BookRepository
}

func NewCommentService(comments repository.CommentRepository, books repository.BookRepository) CommentService {
	return &commentService{comments: comments, books: books}
}

// AddComment attaches a comment to an existing book
func (s *commentService) AddComment(ctx context.Context, userID string, bookID int64, text string) (*models.BookComment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Fields: map[string]string{"comment": "is required"}}
	}
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, translate(err)
	}

	c := &models.BookComment{
		BookID:      bookID,
		CommenterID: userID,
		Comment:     text,
		CommentDate: time.Now().UTC(),
	}
	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *commentService) ListComments(ctx context.Context, bookID int64) ([]models.BookComment, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, translate(err)
	}
	return s.comments.ListComments(ctx, bookID)
}

// Recommend records why userID recommends a book
func (s *commentService) Recommend(ctx context.Context, userID string, bookID int64, reason string) (*models.BookRecommendation, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, translate(err)
	}

	rec := &models.BookRecommendation{
		BookID:             bookID,
		RecommenderID:      userID,
		Reason:             strings.TrimSpace(reason),
		RecommendationDate: time.Now().UTC(),
	}
	if err := s.comments.CreateRecommendation(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *commentService) ListRecommendations(ctx context.Context, bookID int64) ([]models.BookRecommendation, error) {
	if _, err := s.books.GetByID(ctx, bookID); err != nil {
		return nil, translate(err)
	}
	return s.comments.ListRecommendations(ctx, bookID)
}

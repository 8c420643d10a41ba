package repository

import (
	"context"
	"fmt"

	"libmanage/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type CommentRepository interface {
	CreateComment(ctx context.Context, c *models.BookComment) error
	ListComments(ctx context.Context, bookID int64) ([]models.BookComment, error)
	CreateRecommendation(ctx context.Context, rec *models.BookRecommendation) error
	ListRecommendations(ctx context.Context, bookID int64) ([]models.BookRecommendation, error)
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) CreateComment(ctx context.Context, c *models.BookComment) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

func (r *commentRepository) ListComments(ctx context.Context, bookID int64) ([]models.BookComment, error) {
	var list []models.BookComment
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("comment_date DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return list, nil
}

func (r *commentRepository) CreateRecommendation(ctx context.Context, rec *models.BookRecommendation) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("create recommendation: %w", err)
	}
	return nil
}

func (r *commentRepository) ListRecommendations(ctx context.Context, bookID int64) ([]models.BookRecommendation, error) {
	var list []models.BookRecommendation
	if err := r.db.WithContext(ctx).
		Where("book_id = ?", bookID).
		Order("recommendation_date DESC, id DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list recommendations: %w", err)
	}
	return list, nil
}

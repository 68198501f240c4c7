// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"atrium/internal/cache"
	"atrium/internal/database"
	"atrium/internal/models"
	"atrium/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("insert", "comments")()
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return database.TranslateError(err, "Comment", comment.PostID)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	defer observability.TrackQuery("select", "comments")()
	if err := r.db.WithContext(ctx).Preload("Profile").First(&comment, id).Error; err != nil {
		return nil, database.TranslateError(err, "Comment", id)
	}
	return &comment, nil
}

// ListByPost returns comments oldest first, chat-like.
func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	defer observability.TrackQuery("select", "comments")()
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("post_id = ?", postID).
		Order("created_at asc").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	defer observability.TrackQuery("update", "comments")()
	if err := r.db.WithContext(ctx).Save(comment).Error; err != nil {
		return database.TranslateError(err, "Comment", comment.ID)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	var comment models.Comment
	if err := r.db.WithContext(ctx).First(&comment, id).Error; err != nil {
		return database.TranslateError(err, "Comment", id)
	}
	defer observability.TrackQuery("delete", "comments")()
	if err := r.db.WithContext(ctx).Delete(&models.Comment{}, id).Error; err != nil {
		return database.TranslateError(err, "Comment", id)
	}
	cache.InvalidatePost(ctx, comment.PostID)
	cache.InvalidateFeed(ctx)
	return nil
}

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

// PostRepository defines the interface for post data operations.
// Like operations live here too: a like is a property of a post row pair
// and every like mutation invalidates the post's cached aggregates.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint, currentProfileID uint) (*models.Post, error)
	GetByProfileID(ctx context.Context, profileID uint, limit, offset int, currentProfileID uint) ([]*models.Post, error)
	List(ctx context.Context, limit, offset int, currentProfileID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	IsLiked(ctx context.Context, profileID, postID uint) (bool, error)
	GetLikedPostIDs(ctx context.Context, profileID uint, postIDs []uint) ([]uint, error)
	Like(ctx context.Context, profileID, postID uint) error
	Unlike(ctx context.Context, profileID, postID uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return database.TranslateError(err, "Post", post.ProfileID)
	}
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint, currentProfileID uint) (*models.Post, error) {
	var post models.Post
	defer observability.TrackQuery("select", "posts")()

	var err error
	if currentProfileID == 0 {
		key := cache.PostKey(id)
		err = cache.Aside(ctx, key, &post, cache.PostTTL, func() error {
			return r.applyPostDetails(r.db.WithContext(ctx), 0).
				Preload("Profile").
				First(&post, id).Error
		})
	} else {
		err = r.applyPostDetails(r.db.WithContext(ctx), currentProfileID).
			Preload("Profile").
			First(&post, id).Error
	}

	if err != nil {
		return nil, database.TranslateError(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) GetByProfileID(ctx context.Context, profileID uint, limit, offset int, currentProfileID uint) ([]*models.Post, error) {
	var posts []*models.Post
	defer observability.TrackQuery("select", "posts")()
	err := r.applyPostDetails(r.db.WithContext(ctx), currentProfileID).
		Preload("Profile").
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) List(ctx context.Context, limit, offset int, currentProfileID uint) ([]*models.Post, error) {
	var posts []*models.Post
	defer observability.TrackQuery("select", "posts")()
	err := r.applyPostDetails(r.db.WithContext(ctx), currentProfileID).
		Preload("Profile").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

// applyPostDetails adds subqueries to fetch counts and liked status in a
// single query. Counts are always recomputed from rows; nothing is
// materialized.
func (r *postRepository) applyPostDetails(db *gorm.DB, currentProfileID uint) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) as comments_count, " +
		"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id) as likes_count"

	if currentProfileID != 0 {
		return db.Select(selectQuery+", EXISTS(SELECT 1 FROM likes WHERE likes.post_id = posts.id AND likes.profile_id = ?) as liked", currentProfileID)
	}

	return db.Select(selectQuery + ", false as liked")
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return database.TranslateError(err, "Post", post.ID)
	}
	cache.InvalidatePost(ctx, post.ID)
	cache.InvalidateFeed(ctx)
	return nil
}

// Delete removes the post row permanently so the database cascade deletes
// its like and comment rows.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()
	if err := r.db.WithContext(ctx).Unscoped().Delete(&models.Post{}, id).Error; err != nil {
		return database.TranslateError(err, "Post", id)
	}
	cache.InvalidatePost(ctx, id)
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *postRepository) IsLiked(ctx context.Context, profileID, postID uint) (bool, error) {
	var count int64
	defer observability.TrackQuery("select", "likes")()
	if err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("profile_id = ? AND post_id = ?", profileID, postID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) GetLikedPostIDs(ctx context.Context, profileID uint, postIDs []uint) ([]uint, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var likedPostIDs []uint
	defer observability.TrackQuery("select", "likes")()
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("profile_id = ? AND post_id IN ?", profileID, postIDs).
		Pluck("post_id", &likedPostIDs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return likedPostIDs, nil
}

// Like inserts the like row. A duplicate (profile, post) pair hits the
// unique index and surfaces as a conflict; the caller decides whether to
// re-check state and retry.
func (r *postRepository) Like(ctx context.Context, profileID, postID uint) error {
	defer observability.TrackQuery("insert", "likes")()
	like := &models.Like{ProfileID: profileID, PostID: postID}
	if err := r.db.WithContext(ctx).Create(like).Error; err != nil {
		return database.TranslateError(err, "Like", postID)
	}
	cache.InvalidatePost(ctx, postID)
	cache.InvalidateFeed(ctx)
	return nil
}

// Unlike hard-deletes the like row. Deleting an absent like affects zero
// rows and is not an error; the count is recomputed from rows and can
// never go negative.
func (r *postRepository) Unlike(ctx context.Context, profileID, postID uint) error {
	defer observability.TrackQuery("delete", "likes")()
	err := r.db.WithContext(ctx).
		Where("profile_id = ? AND post_id = ?", profileID, postID).
		Delete(&models.Like{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePost(ctx, postID)
	cache.InvalidateFeed(ctx)
	return nil
}

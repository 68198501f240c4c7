// Package service implements the application's business logic on top of the
// repository layer.
package service

import (
	"context"

	"atrium/internal/authz"
	"atrium/internal/cache"
	"atrium/internal/models"
	"atrium/internal/observability"
	"atrium/internal/repository"
	"atrium/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// FeedService creates and lists posts, each annotated with its author
// profile and aggregate like/comment counts.
type FeedService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	ProfileID uint
	Content   string
}

type ListPostsInput struct {
	Limit            int
	Offset           int
	CurrentProfileID uint
}

type UpdatePostInput struct {
	ActingID uint
	PostID   uint
	Content  string
}

func NewFeedService(postRepo repository.PostRepository) *FeedService {
	return &FeedService{postRepo: postRepo}
}

// CreatePost validates and stores a new post, returning it joined with its
// author and zero-valued counts.
func (s *FeedService) CreatePost(ctx context.Context, in CreatePostInput) (_ *models.Post, err error) {
	span, ctx := observability.NewSpan(ctx, "FeedService.CreatePost")
	span.AddAttributes(attribute.Int("profile.id", int(in.ProfileID)))
	defer func() {
		span.SetError(err)
		span.End()
	}()

	content, err := validation.ValidateContent(in.Content, validation.MaxPostLength)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		Content:   content,
		ProfileID: in.ProfileID,
	}
	if err := authz.Check(authz.OpInsert, in.ProfileID, post.ProfileID); err != nil {
		return nil, err
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.PostsCreated.Inc()

	return s.postRepo.GetByID(ctx, post.ID, in.ProfileID)
}

// defaultFeedLimit is the canonical page size; only this exact first page
// is cached so a short custom page can never be pinned for later readers.
const defaultFeedLimit = 20

// ListPosts returns posts newest first. The canonical first page is served
// through the cache; an authenticated viewer gets their liked flags
// re-applied on top of the cached rows.
func (s *FeedService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	var posts []*models.Post
	var err error

	if in.Offset == 0 && in.Limit == defaultFeedLimit {
		key := cache.FeedKey()
		err = cache.Aside(ctx, key, &posts, cache.FeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.List(ctx, in.Limit, in.Offset, 0)
			return fetchErr
		})
		if err != nil {
			return nil, err
		}

		// Re-enrich with the current viewer's liked status
		if in.CurrentProfileID != 0 && len(posts) > 0 {
			postIDs := make([]uint, len(posts))
			for i, p := range posts {
				postIDs[i] = p.ID
			}

			likedIDs, likedErr := s.postRepo.GetLikedPostIDs(ctx, in.CurrentProfileID, postIDs)
			if likedErr == nil {
				likedMap := make(map[uint]bool, len(likedIDs))
				for _, id := range likedIDs {
					likedMap[id] = true
				}
				for _, p := range posts {
					p.Liked = likedMap[p.ID]
				}
			}
		}
		return posts, nil
	}

	return s.postRepo.List(ctx, in.Limit, in.Offset, in.CurrentProfileID)
}

func (s *FeedService) GetPost(ctx context.Context, id, currentProfileID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentProfileID)
}

// GetPostsByAuthor returns one author's posts, feed-shaped, for profile pages.
func (s *FeedService) GetPostsByAuthor(ctx context.Context, authorID uint, limit, offset int, currentProfileID uint) ([]*models.Post, error) {
	return s.postRepo.GetByProfileID(ctx, authorID, limit, offset, currentProfileID)
}

// UpdatePost applies an owner-only content change.
func (s *FeedService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, in.ActingID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(authz.OpUpdate, in.ActingID, post.ProfileID); err != nil {
		return nil, err
	}

	content, err := validation.ValidateContent(in.Content, validation.MaxPostLength)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	post.Content = content

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes an owner's post; the database cascade removes its likes
// and comments.
func (s *FeedService) DeletePost(ctx context.Context, actingID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, actingID)
	if err != nil {
		return err
	}
	if err := authz.Check(authz.OpDelete, actingID, post.ProfileID); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, postID)
}

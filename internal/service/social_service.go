package service

import (
	"context"

	"atrium/internal/authz"
	"atrium/internal/models"
	"atrium/internal/observability"
	"atrium/internal/repository"
	"atrium/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

// SocialService records likes and comments and answers presence/aggregate
// questions about them. Uniqueness of a like per (profile, post) pair is the
// database's unique index, not application bookkeeping.
type SocialService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type AddCommentInput struct {
	ProfileID uint
	PostID    uint
	Content   string
}

type UpdateCommentInput struct {
	ActingID  uint
	CommentID uint
	Content   string
}

func NewSocialService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *SocialService {
	return &SocialService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// IsLiked reports whether the profile has liked the post. Absence of a row
// means false; this is a presence check, not a count.
func (s *SocialService) IsLiked(ctx context.Context, profileID, postID uint) (bool, error) {
	return s.postRepo.IsLiked(ctx, profileID, postID)
}

// ToggleLike flips the like state for (profile, post) and returns the post
// re-fetched with authoritative counts. The current state is re-checked
// server-side rather than trusted from the client; a duplicate insert that
// still slips through under concurrency surfaces as a conflict for the
// caller to re-check and retry.
func (s *SocialService) ToggleLike(ctx context.Context, profileID, postID uint) (_ *models.Post, err error) {
	span, ctx := observability.NewSpan(ctx, "SocialService.ToggleLike")
	span.AddAttributes(
		attribute.Int("profile.id", int(profileID)),
		attribute.Int("post.id", int(postID)),
	)
	defer func() {
		span.SetError(err)
		span.End()
	}()

	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}

	isLiked, err := s.postRepo.IsLiked(ctx, profileID, postID)
	if err != nil {
		return nil, err
	}

	if isLiked {
		if err := s.postRepo.Unlike(ctx, profileID, postID); err != nil {
			return nil, err
		}
		observability.LikeToggles.WithLabelValues("unlike").Inc()
	} else {
		if err := s.postRepo.Like(ctx, profileID, postID); err != nil {
			return nil, err
		}
		observability.LikeToggles.WithLabelValues("like").Inc()
	}

	return s.postRepo.GetByID(ctx, postID, profileID)
}

// Unlike removes the like if present. Unliking a post the profile never
// liked is a no-op; the count can never go negative because it is computed
// from rows.
func (s *SocialService) Unlike(ctx context.Context, profileID, postID uint) (*models.Post, error) {
	if err := s.postRepo.Unlike(ctx, profileID, postID); err != nil {
		return nil, err
	}
	observability.LikeToggles.WithLabelValues("unlike").Inc()
	return s.postRepo.GetByID(ctx, postID, profileID)
}

// ListComments returns a post's comments oldest first, each joined with its
// author profile.
func (s *SocialService) ListComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(ctx, postID, 0); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByPost(ctx, postID)
}

// AddComment validates and stores a comment, returning it joined with its
// author profile.
func (s *SocialService) AddComment(ctx context.Context, in AddCommentInput) (_ *models.Comment, err error) {
	span, ctx := observability.NewSpan(ctx, "SocialService.AddComment")
	span.AddAttributes(
		attribute.Int("profile.id", int(in.ProfileID)),
		attribute.Int("post.id", int(in.PostID)),
	)
	defer func() {
		span.SetError(err)
		span.End()
	}()

	if _, err := s.postRepo.GetByID(ctx, in.PostID, 0); err != nil {
		return nil, err
	}

	content, err := validation.ValidateContent(in.Content, validation.MaxCommentLength)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	comment := &models.Comment{
		Content:   content,
		ProfileID: in.ProfileID,
		PostID:    in.PostID,
	}
	if err := authz.Check(authz.OpInsert, in.ProfileID, comment.ProfileID); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.CommentsCreated.Inc()

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// UpdateComment applies an owner-only content change.
func (s *SocialService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(authz.OpUpdate, in.ActingID, comment.ProfileID); err != nil {
		return nil, err
	}

	content, err := validation.ValidateContent(in.Content, validation.MaxCommentLength)
	if err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	comment.Content = content

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes an owner's comment.
func (s *SocialService) DeleteComment(ctx context.Context, actingID, commentID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(authz.OpDelete, actingID, comment.ProfileID); err != nil {
		return nil, err
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		return nil, err
	}
	return comment, nil
}

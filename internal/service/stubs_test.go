package service

import (
	"context"
	"errors"
	"testing"

	"atrium/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// profileRepoStub is a stub for repository.ProfileRepository.
type profileRepoStub struct {
	getByIDFn    func(context.Context, uint) (*models.Profile, error)
	getByEmailFn func(context.Context, string) (*models.Profile, error)
	createFn     func(context.Context, *models.Profile) error
	updateFn     func(context.Context, *models.Profile) error
	deleteFn     func(context.Context, uint) error
	listFn       func(context.Context, int, int) ([]models.Profile, error)
}

func (s *profileRepoStub) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	return s.getByIDFn(ctx, id)
}
func (s *profileRepoStub) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *profileRepoStub) Create(ctx context.Context, profile *models.Profile) error {
	return s.createFn(ctx, profile)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}
func (s *profileRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *profileRepoStub) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	return s.listFn(ctx, limit, offset)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByIDFn:    func(_ context.Context, id uint) (*models.Profile, error) { return &models.Profile{ID: id}, nil },
		getByEmailFn: func(_ context.Context, _ string) (*models.Profile, error) { return nil, nil },
		createFn:     func(_ context.Context, _ *models.Profile) error { return nil },
		updateFn:     func(_ context.Context, _ *models.Profile) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
		listFn:       func(_ context.Context, _, _ int) ([]models.Profile, error) { return nil, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint, uint) (*models.Post, error)
	getByProfileIDFn  func(context.Context, uint, int, int, uint) ([]*models.Post, error)
	listFn            func(context.Context, int, int, uint) ([]*models.Post, error)
	updateFn          func(context.Context, *models.Post) error
	deleteFn          func(context.Context, uint) error
	isLikedFn         func(context.Context, uint, uint) (bool, error)
	getLikedPostIDsFn func(context.Context, uint, []uint) ([]uint, error)
	likeFn            func(context.Context, uint, uint) error
	unlikeFn          func(context.Context, uint, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id, currentProfileID uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id, currentProfileID)
}
func (s *postRepoStub) GetByProfileID(ctx context.Context, profileID uint, limit, offset int, currentProfileID uint) ([]*models.Post, error) {
	return s.getByProfileIDFn(ctx, profileID, limit, offset, currentProfileID)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int, currentProfileID uint) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset, currentProfileID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *postRepoStub) IsLiked(ctx context.Context, profileID, postID uint) (bool, error) {
	return s.isLikedFn(ctx, profileID, postID)
}
func (s *postRepoStub) GetLikedPostIDs(ctx context.Context, profileID uint, postIDs []uint) ([]uint, error) {
	return s.getLikedPostIDsFn(ctx, profileID, postIDs)
}
func (s *postRepoStub) Like(ctx context.Context, profileID, postID uint) error {
	return s.likeFn(ctx, profileID, postID)
}
func (s *postRepoStub) Unlike(ctx context.Context, profileID, postID uint) error {
	return s.unlikeFn(ctx, profileID, postID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:          func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:         func(_ context.Context, id, _ uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		getByProfileIDFn:  func(_ context.Context, _ uint, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		listFn:            func(_ context.Context, _, _ int, _ uint) ([]*models.Post, error) { return nil, nil },
		updateFn:          func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
		isLikedFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		getLikedPostIDsFn: func(_ context.Context, _ uint, _ []uint) ([]uint, error) { return nil, nil },
		likeFn:            func(_ context.Context, _, _ uint) error { return nil },
		unlikeFn:          func(_ context.Context, _, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn     func(context.Context, *models.Comment) error
	getByIDFn    func(context.Context, uint) (*models.Comment, error)
	listByPostFn func(context.Context, uint) ([]*models.Comment, error)
	updateFn     func(context.Context, *models.Comment) error
	deleteFn     func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn:    func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByPostFn: func(_ context.Context, _ uint) ([]*models.Comment, error) { return nil, nil },
		updateFn:     func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

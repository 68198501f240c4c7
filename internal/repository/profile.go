// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"atrium/internal/cache"
	"atrium/internal/database"
	"atrium/internal/models"
	"atrium/internal/observability"

	"gorm.io/gorm"
)

// ProfileRepository defines persistence operations for profiles.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uint) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]models.Profile, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository returns a new ProfileRepository implementation.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	var profile models.Profile
	key := cache.ProfileKey(id)

	err := cache.Aside(ctx, key, &profile, cache.ProfileTTL, func() error {
		defer observability.TrackQuery("select", "profiles")()
		if err := r.db.WithContext(ctx).First(&profile, id).Error; err != nil {
			return database.TranslateError(err, "Profile", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByEmail returns (nil, nil) when no profile matches; callers treat
// absence as a normal outcome during registration and first sign-in.
func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	defer observability.TrackQuery("select", "profiles")()
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	defer observability.TrackQuery("insert", "profiles")()
	if err := r.db.WithContext(ctx).Create(profile).Error; err != nil {
		return database.TranslateError(err, "Profile", profile.Email)
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	defer observability.TrackQuery("update", "profiles")()
	if err := r.db.WithContext(ctx).Save(profile).Error; err != nil {
		return database.TranslateError(err, "Profile", profile.ID)
	}
	cache.InvalidateProfile(ctx, profile.ID)
	return nil
}

// Delete removes the profile row permanently so the database cascades take
// out its posts, likes, and comments (transitively, likes/comments on its
// posts as well).
func (r *profileRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "profiles")()
	if err := r.db.WithContext(ctx).Unscoped().Delete(&models.Profile{}, id).Error; err != nil {
		return database.TranslateError(err, "Profile", id)
	}
	cache.InvalidateProfile(ctx, id)
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *profileRepository) List(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	var profiles []models.Profile
	defer observability.TrackQuery("select", "profiles")()
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&profiles).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return profiles, nil
}

package service

import (
	"context"
	"errors"

	"atrium/internal/authz"
	"atrium/internal/models"
	"atrium/internal/observability"
	"atrium/internal/repository"
	"atrium/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// fallbackName is used when neither signup metadata nor the email yields a
// usable display name.
const fallbackName = "New User"

// Principal is an authenticated identity as presented by the auth layer:
// an opaque id, the email it signed up with, and optional signup metadata.
type Principal struct {
	ID    uint
	Email string
	Name  string
	Bio   string
}

// ProfileService resolves principals to profiles and manages the profile
// lifecycle. Resolution is a single idempotent lookup-or-create.
type ProfileService struct {
	profileRepo repository.ProfileRepository
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Headline string
	Bio      string
}

type UpdateProfileInput struct {
	ActingID  uint
	ProfileID uint
	Name      string
	Headline  string
	Bio       string
	Avatar    string
}

func NewProfileService(profileRepo repository.ProfileRepository) *ProfileService {
	return &ProfileService{profileRepo: profileRepo}
}

// Resolve returns the profile for the principal, creating one on first
// sign-in if absent. The display name defaults to the signup-provided name,
// else the local part of the email, else a fixed placeholder. A concurrent
// first-login can lose the create race; the resulting conflict is returned
// to the caller for retry rather than swallowed.
func (s *ProfileService) Resolve(ctx context.Context, p Principal) (_ *models.Profile, err error) {
	span, ctx := observability.NewSpan(ctx, "ProfileService.Resolve")
	span.AddAttributes(attribute.Int("principal.id", int(p.ID)))
	defer func() {
		span.SetError(err)
		span.End()
	}()

	if p.ID == 0 {
		return nil, models.NewUnauthenticatedError("Authentication required")
	}

	profile, err := s.profileRepo.GetByID(ctx, p.ID)
	if err == nil {
		observability.ProfilesResolved.WithLabelValues("found").Inc()
		return profile, nil
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != models.CodeNotFound {
		return nil, err
	}

	// Creating requires the principal's email: it is the unique natural key,
	// and inserting without one would collide every email-less principal on
	// the same empty value.
	if p.Email == "" {
		return nil, models.NewUnauthenticatedError("Token carries no email identity")
	}

	name := p.Name
	if name == "" {
		name = validation.EmailLocalPart(p.Email)
	}
	if name == "" {
		name = fallbackName
	}

	profile = &models.Profile{
		ID:    p.ID,
		Name:  name,
		Email: p.Email,
		Bio:   p.Bio,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	observability.ProfilesResolved.WithLabelValues("created").Inc()
	return profile, nil
}

// Register creates a new profile with hashed credentials and returns it.
func (s *ProfileService) Register(ctx context.Context, in RegisterInput) (*models.Profile, error) {
	if err := validation.ValidateName(in.Name); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	existing, err := s.profileRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Profile already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	profile := &models.Profile{
		Name:     in.Name,
		Email:    in.Email,
		Password: string(hashedPassword),
		Headline: in.Headline,
		Bio:      in.Bio,
	}
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, err
	}
	observability.ProfilesResolved.WithLabelValues("created").Inc()
	return profile, nil
}

// Login verifies credentials and returns the matching profile.
func (s *ProfileService) Login(ctx context.Context, email, password string) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, models.NewUnauthenticatedError("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(password)); err != nil {
		return nil, models.NewUnauthenticatedError("Invalid credentials")
	}
	return profile, nil
}

func (s *ProfileService) GetProfile(ctx context.Context, id uint) (*models.Profile, error) {
	return s.profileRepo.GetByID(ctx, id)
}

// ListProfiles returns profiles newest first for the people directory.
func (s *ProfileService) ListProfiles(ctx context.Context, limit, offset int) ([]models.Profile, error) {
	return s.profileRepo.List(ctx, limit, offset)
}

// UpdateProfile applies owner-only changes to a profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, in.ProfileID)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(authz.OpUpdate, in.ActingID, profile.ID); err != nil {
		return nil, err
	}

	if in.Name != "" {
		if err := validation.ValidateName(in.Name); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		profile.Name = in.Name
	}
	if in.Headline != "" {
		profile.Headline = in.Headline
	}
	if in.Bio != "" {
		profile.Bio = in.Bio
	}
	if in.Avatar != "" {
		profile.Avatar = in.Avatar
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// DeleteProfile removes a profile. The database cascade removes its posts,
// likes, and comments, and transitively everyone else's likes/comments on
// those posts.
func (s *ProfileService) DeleteProfile(ctx context.Context, actingID, profileID uint) error {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}
	if err := authz.Check(authz.OpDelete, actingID, profile.ID); err != nil {
		return err
	}
	return s.profileRepo.Delete(ctx, profileID)
}

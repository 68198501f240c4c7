package service

import (
	"context"
	"testing"

	"atrium/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestProfileService_Resolve(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("anonymous principal", func(t *testing.T) {
		t.Parallel()
		svc := NewProfileService(noopProfileRepo())
		_, err := svc.Resolve(ctx, Principal{})
		assertAppErrorCode(t, err, models.CodeUnauthenticated)
	})

	t.Run("existing profile is returned unchanged", func(t *testing.T) {
		t.Parallel()
		repo := noopProfileRepo()
		created := false
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
			return &models.Profile{ID: id, Name: "Ada Varga"}, nil
		}
		repo.createFn = func(_ context.Context, _ *models.Profile) error {
			created = true
			return nil
		}
		svc := NewProfileService(repo)

		profile, err := svc.Resolve(ctx, Principal{ID: 3, Email: "ada@example.com", Name: "Different Name"})
		require.NoError(t, err)
		assert.Equal(t, "Ada Varga", profile.Name)
		assert.False(t, created, "resolve must not create when the profile exists")
	})

	t.Run("creates with provided name on first sign-in", func(t *testing.T) {
		t.Parallel()
		repo := noopProfileRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
			return nil, models.NewNotFoundError("Profile", id)
		}
		var createdProfile *models.Profile
		repo.createFn = func(_ context.Context, p *models.Profile) error {
			createdProfile = p
			return nil
		}
		svc := NewProfileService(repo)

		profile, err := svc.Resolve(ctx, Principal{ID: 5, Email: "carla@example.com", Name: "Carla Reyes"})
		require.NoError(t, err)
		require.NotNil(t, createdProfile)
		assert.Equal(t, uint(5), profile.ID)
		assert.Equal(t, "Carla Reyes", profile.Name)
	})

	t.Run("name falls back to email local part", func(t *testing.T) {
		t.Parallel()
		repo := noopProfileRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
			return nil, models.NewNotFoundError("Profile", id)
		}
		svc := NewProfileService(repo)

		profile, err := svc.Resolve(ctx, Principal{ID: 5, Email: "carla@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "carla", profile.Name)
	})

	t.Run("name falls back to placeholder", func(t *testing.T) {
		t.Parallel()
		repo := noopProfileRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
			return nil, models.NewNotFoundError("Profile", id)
		}
		svc := NewProfileService(repo)

		profile, err := svc.Resolve(ctx, Principal{ID: 5, Email: "@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "New User", profile.Name)
	})

	t.Run("create without email is rejected", func(t *testing.T) {
		t.Parallel()
		repo := noopProfileRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
			return nil, models.NewNotFoundError("Profile", id)
		}
		created := false
		repo.createFn = func(_ context.Context, _ *models.Profile) error {
			created = true
			return nil
		}
		svc := NewProfileService(repo)

		// Two email-less principals would otherwise both insert an empty
		// email and collide on the unique index.
		_, err := svc.Resolve(ctx, Principal{ID: 41})
		assertAppErrorCode(t, err, models.CodeUnauthenticated)
		_, err = svc.Resolve(ctx, Principal{ID: 42})
		assertAppErrorCode(t, err, models.CodeUnauthenticated)
		assert.False(t, created, "resolve must not create a profile without an email")
	})

	t.Run("lost create race surfaces conflict", func(t *testing.T) {
		t.Parallel()
		repo := noopProfileRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
			return nil, models.NewNotFoundError("Profile", id)
		}
		repo.createFn = func(_ context.Context, _ *models.Profile) error {
			return models.NewConflictError("Profile already exists")
		}
		svc := NewProfileService(repo)

		_, err := svc.Resolve(ctx, Principal{ID: 5, Email: "carla@example.com"})
		assertAppErrorCode(t, err, models.CodeConflict)
	})
}

func TestProfileService_Register(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	valid := RegisterInput{
		Name:     "Ada Varga",
		Email:    "ada@example.com",
		Password: "SecurePass123!@#",
	}

	t.Run("validation failures", func(t *testing.T) {
		t.Parallel()
		svc := NewProfileService(noopProfileRepo())

		tests := []struct {
			name  string
			input RegisterInput
		}{
			{"missing name", RegisterInput{Email: valid.Email, Password: valid.Password}},
			{"bad email", RegisterInput{Name: valid.Name, Email: "nope", Password: valid.Password}},
			{"weak password", RegisterInput{Name: valid.Name, Email: valid.Email, Password: "short"}},
		}
		for _, tc := range tests {
			tc := tc
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				_, err := svc.Register(ctx, tc.input)
				assertAppErrorCode(t, err, models.CodeValidation)
			})
		}
	})

	t.Run("duplicate email is conflict", func(t *testing.T) {
		t.Parallel()
		repo := noopProfileRepo()
		repo.getByEmailFn = func(_ context.Context, _ string) (*models.Profile, error) {
			return &models.Profile{ID: 1, Email: valid.Email}, nil
		}
		svc := NewProfileService(repo)

		_, err := svc.Register(ctx, valid)
		assertAppErrorCode(t, err, models.CodeConflict)
	})

	t.Run("password is stored hashed", func(t *testing.T) {
		t.Parallel()
		repo := noopProfileRepo()
		var created *models.Profile
		repo.createFn = func(_ context.Context, p *models.Profile) error {
			created = p
			return nil
		}
		svc := NewProfileService(repo)

		_, err := svc.Register(ctx, valid)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotEqual(t, valid.Password, created.Password)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte(valid.Password)))
	})
}

func TestProfileService_Login(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte("SecurePass123!@#"), bcrypt.MinCost)
	require.NoError(t, err)

	repoWithUser := func() *profileRepoStub {
		repo := noopProfileRepo()
		repo.getByEmailFn = func(_ context.Context, email string) (*models.Profile, error) {
			if email == "ada@example.com" {
				return &models.Profile{ID: 1, Email: email, Password: string(hashed)}, nil
			}
			return nil, nil
		}
		return repo
	}

	t.Run("valid credentials", func(t *testing.T) {
		t.Parallel()
		svc := NewProfileService(repoWithUser())
		profile, err := svc.Login(ctx, "ada@example.com", "SecurePass123!@#")
		require.NoError(t, err)
		assert.Equal(t, uint(1), profile.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		t.Parallel()
		svc := NewProfileService(repoWithUser())
		_, err := svc.Login(ctx, "ada@example.com", "WrongPass123!@#")
		assertAppErrorCode(t, err, models.CodeUnauthenticated)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()
		svc := NewProfileService(repoWithUser())
		_, err := svc.Login(ctx, "ghost@example.com", "SecurePass123!@#")
		assertAppErrorCode(t, err, models.CodeUnauthenticated)
	})
}

func TestProfileService_ListProfiles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := noopProfileRepo()
	repo.listFn = func(_ context.Context, limit, offset int) ([]models.Profile, error) {
		assert.Equal(t, 20, limit)
		assert.Equal(t, 40, offset)
		return []models.Profile{{ID: 2, Name: "Ben Okafor"}, {ID: 1, Name: "Ada Varga"}}, nil
	}
	svc := NewProfileService(repo)

	profiles, err := svc.ListProfiles(ctx, 20, 40)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, "Ben Okafor", profiles[0].Name)
}

func TestProfileService_UpdateProfile_Ownership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("owner can update", func(t *testing.T) {
		t.Parallel()
		repo := noopProfileRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
			return &models.Profile{ID: id, Name: "Old Name"}, nil
		}
		svc := NewProfileService(repo)

		profile, err := svc.UpdateProfile(ctx, UpdateProfileInput{ActingID: 2, ProfileID: 2, Name: "New Name"})
		require.NoError(t, err)
		assert.Equal(t, "New Name", profile.Name)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		t.Parallel()
		svc := NewProfileService(noopProfileRepo())
		_, err := svc.UpdateProfile(ctx, UpdateProfileInput{ActingID: 1, ProfileID: 2, Name: "Hijack"})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})
}

func TestProfileService_DeleteProfile_Ownership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("owner can delete", func(t *testing.T) {
		t.Parallel()
		repo := noopProfileRepo()
		deleted := uint(0)
		repo.deleteFn = func(_ context.Context, id uint) error {
			deleted = id
			return nil
		}
		svc := NewProfileService(repo)

		require.NoError(t, svc.DeleteProfile(ctx, 4, 4))
		assert.Equal(t, uint(4), deleted)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		t.Parallel()
		svc := NewProfileService(noopProfileRepo())
		err := svc.DeleteProfile(ctx, 1, 4)
		assertAppErrorCode(t, err, models.CodeForbidden)
	})
}

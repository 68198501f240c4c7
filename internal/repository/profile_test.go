package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"atrium/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestProfileRepository_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	tests := []struct {
		name            string
		profileID       uint
		mockBehavior    func()
		expectedProfile *models.Profile
		expectedError   bool
	}{
		{
			name:      "Success",
			profileID: 1,
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"id", "name", "email"}).
					AddRow(1, "Ada Varga", "ada@example.com")
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE "profiles"."id" = $1 AND "profiles"."deleted_at" IS NULL ORDER BY "profiles"."id" LIMIT $2`)).
					WithArgs(1, 1).
					WillReturnRows(rows)
			},
			expectedProfile: &models.Profile{ID: 1, Name: "Ada Varga", Email: "ada@example.com"},
		},
		{
			name:      "Not Found",
			profileID: 99,
			mockBehavior: func() {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE "profiles"."id" = $1 AND "profiles"."deleted_at" IS NULL ORDER BY "profiles"."id" LIMIT $2`)).
					WithArgs(99, 1).
					WillReturnError(gorm.ErrRecordNotFound)
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			profile, err := repo.GetByID(ctx, tt.profileID)

			if tt.expectedError {
				require.Error(t, err)
				var appErr *models.AppError
				require.True(t, errors.As(err, &appErr))
				assert.Equal(t, models.CodeNotFound, appErr.Code)
			} else if assert.NotNil(t, profile) {
				assert.Equal(t, tt.expectedProfile.Name, profile.Name)
				assert.Equal(t, tt.expectedProfile.Email, profile.Email)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestProfileRepository_GetByEmail(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "name", "email"}).
			AddRow(2, "Ben Okafor", "ben@example.com")
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE email = $1`)).
			WithArgs("ben@example.com", 1).
			WillReturnRows(rows)

		profile, err := repo.GetByEmail(ctx, "ben@example.com")
		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, uint(2), profile.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absence is nil, nil", func(t *testing.T) {
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE email = $1`)).
			WithArgs("nobody@example.com", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		profile, err := repo.GetByEmail(ctx, "nobody@example.com")
		assert.NoError(t, err)
		assert.Nil(t, profile)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestProfileRepository_Delete_IsHardDelete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepository(db)
	ctx := context.Background()

	// A plain DELETE, not an UPDATE of deleted_at, so the FK cascades fire.
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "profiles" WHERE "profiles"."id" = $1`)).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Delete(ctx, 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package database

import (
	"errors"

	"atrium/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres error codes the application cares about.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// TranslateError maps driver-level errors onto the application error
// taxonomy: unique violations become conflicts, FK violations and missing
// rows become not-found, everything else is transient/internal.
// The resource name and id are used for the not-found message.
func TranslateError(err error, resource string, id any) error {
	if err == nil {
		return nil
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return models.NewConflictError(resource + " already exists")
		case pgForeignKeyViolation:
			return models.NewNotFoundError(resource, id)
		}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewConflictError(resource + " already exists")
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return models.NewNotFoundError(resource, id)
	}

	return models.NewInternalError(err)
}

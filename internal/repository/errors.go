package repository

import (
	"errors"
	"fmt"

	"github.com/edutrain/training-backend/internal/model"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("record already exists")
	ErrReferenced = errors.New("referenced record does not exist")
	// ErrCodeExhausted means every generated business code collided.
	ErrCodeExhausted = errors.New("could not allocate a unique code")
	// ErrValueOutOfRange means a numeric column such as a balance would
	// exceed its declared precision.
	ErrValueOutOfRange = errors.New("value out of range")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNumericOutOfRange   = "22003"
)

// codeRetries is the number of insert attempts for rows with generated codes.
const codeRetries = 3

// mapError converts driver and GORM errors into repository sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicate, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: %s", ErrReferenced, pgErr.ConstraintName)
		case pgNumericOutOfRange:
			return fmt.Errorf("%w: %s", ErrValueOutOfRange, pgErr.Message)
		}
	}
	return err
}

// violates reports whether err is a unique violation of the named constraint.
func violates(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == constraint
}

// failsCheck reports whether err is a failure of the named CHECK constraint.
func failsCheck(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgCheckViolation && pgErr.ConstraintName == constraint
}

// withCodeRetry runs insert until it stops colliding on constraint. reset
// clears the generated code so the BeforeCreate hook issues a fresh one.
func withCodeRetry(constraint string, reset func(), insert func() error) error {
	for attempt := 0; attempt < codeRetries; attempt++ {
		err := insert()
		if !violates(err, constraint) {
			return err
		}
		reset()
	}
	return ErrCodeExhausted
}

// paginate applies offset and limit from a normalized page query.
func paginate(p model.PageQuery) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset()).Limit(p.PerPage)
	}
}

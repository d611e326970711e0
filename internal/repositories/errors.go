package repositories

import (
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// translate maps driver errors onto the repository sentinels and annotates everything else.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errors.WithMessage(ErrNotFound, msg)
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return errors.WithMessage(ErrDuplicate, msg)
	default:
		return errors.Wrap(err, msg)
	}
}

// isUniqueViolation catches drivers that were opened without TranslateError.
func isUniqueViolation(err error) bool {
	s := err.Error()
	return strings.Contains(s, "UNIQUE constraint failed") ||
		strings.Contains(s, "duplicate key value violates unique constraint")
}

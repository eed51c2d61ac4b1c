package db

import (
	"github.com/jinzhu/gorm"
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when an id has no matching row.
	ErrNotFound = errors.New("record not found")
	// ErrInvalid is returned when input is rejected before reaching the store.
	ErrInvalid = errors.New("invalid input")
)

// IsNotFound reports whether err was caused by a missing row.
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}

// IsInvalid reports whether err was caused by rejected input.
func IsInvalid(err error) bool {
	return errors.Cause(err) == ErrInvalid
}

func invalid(msg string) error {
	return errors.Wrap(ErrInvalid, msg)
}

// storeErr maps gorm's record-not-found to ErrNotFound and wraps
// everything else as a store failure.
func storeErr(err error, format string, args ...interface{}) error {
	if gorm.IsRecordNotFoundError(err) {
		return errors.Wrapf(ErrNotFound, format, args...)
	}
	return errors.Wrapf(err, format, args...)
}

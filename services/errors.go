package services

import (
	"errors"
	"fmt"
	"time"

	store "github.com/alvsuut-buddy/Smart-Charity/store"
)

// ErrInvalidInput marks caller mistakes: bad amounts, unknown periods.
// The wrapped message is safe to show to the caller.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// IsStorageError reports whether err came from the record store.
func IsStorageError(err error) bool {
	var se *store.StorageError
	return errors.As(err, &se)
}

// Clock returns the current instant. Tests substitute a fixed one.
type Clock func() time.Time

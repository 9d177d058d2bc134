package store

import (
	"fmt"

	"github.com/abelal/pantrylog/internal/domain"
)

// storageErr tags a persistence failure so callers can match it with
// errors.Is(err, domain.ErrStorageUnavailable) while keeping the cause.
func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

package util

import (
	stderrors "errors"

	"github.com/zfogg/inkwell/backend/internal/errors"
	"github.com/zfogg/inkwell/backend/internal/repository"
)

// WrapNotFound converts repository.ErrNotFound into a NOT_FOUND APIError for resource.
// Any other error is returned unchanged.
func WrapNotFound(err error, resource string) error {
	if stderrors.Is(err, repository.ErrNotFound) {
		return errors.NotFound(resource)
	}
	return err
}

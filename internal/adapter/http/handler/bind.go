package handler

import (
	"errors"
	"net/http"

	"spendwiser/pkg/apperror"
)

// bindError maps a ShouldBindJSON failure to an AppError. Bodies cut off by
// middleware.MaxBodySize become 413 instead of a validation error.
func bindError(err error) *apperror.AppError {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperror.ErrBodyTooLarge(tooLarge.Limit)
	}
	return apperror.Validation(err.Error())
}

package services

import (
	"errors"
	"fmt"

	apperrors "sheetcheck/internal/errors"
)

// Dataset service errors
var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrGoogleDisabled  = errors.New("google sheets loading is disabled")
	ErrUploadTooLarge  = errors.New("upload exceeds the configured size limit")
)

func datasetNotFound(id string) error {
	return apperrors.NewAppError(apperrors.ErrTypeNotFound, fmt.Sprintf("dataset %s not found", id), ErrDatasetNotFound)
}

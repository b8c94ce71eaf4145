package apperrors

import (
	"fmt"
	"net/http"
)

/*
Factories and predefined variables for the form and catalog domain.
The messages here are the exact strings the admin UI shows in toasts,
so changing them is a product decision, not a refactor.
*/

// --- Form validation (operation aborted, no state change) ---

// ErrCategoryRequired - submit attempted without a category selected.
var ErrCategoryRequired = New(
	CodeValidationFailed,
	"form",
	"You must select a category",
	http.StatusBadRequest,
)

// ErrImagesRequired - create submit attempted with no images at all.
var ErrImagesRequired = New(
	CodeValidationFailed,
	"form",
	"You must add at least one image",
	http.StatusBadRequest,
)

// ErrImagesNotUploaded - create submit attempted while images are still
// pending upload. The form never uploads inline at submit time.
var ErrImagesNotUploaded = New(
	CodeValidationFailed,
	"form",
	"Images have not been uploaded yet",
	http.StatusBadRequest,
)

// ErrTooManyImages - a selection batch would push the form past the limit.
func ErrTooManyImages(max int) *AppError {
	message := fmt.Sprintf("You can only upload up to %d images", max)
	return New(CodeLimitExceeded, "form", message, http.StatusBadRequest).
		WithDetails(map[string]int{"max": max})
}

// ErrNotAnImage - a selected file is not an image media type.
var ErrNotAnImage = New(
	CodeValidationFailed,
	"form",
	"Only image files can be uploaded",
	http.StatusBadRequest,
)

// --- Catalog upstream mapping (transport errors, fixed user-facing set) ---

// ErrInstrumentExists - upstream answered 409 on create.
func ErrInstrumentExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "catalog", "The instrument already exists", http.StatusConflict)
}

// ErrInvalidInstrument - upstream answered 400 on create/update.
func ErrInvalidInstrument(err error) *AppError {
	return Wrap(err, CodeValidationFailed, "catalog", "Invalid instrument data", http.StatusBadRequest)
}

// ErrCatalogServer - upstream answered 500.
func ErrCatalogServer(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "catalog", "Server error, please try again later", http.StatusBadGateway)
}

// ErrCatalogUnavailable - transport failure or unexpected upstream status;
// the raw message is surfaced as-is.
func ErrCatalogUnavailable(err error, message string) *AppError {
	return Wrap(err, CodeExternalServiceError, "catalog", message, http.StatusBadGateway)
}

// --- Upload path ---

// ErrUploadFailed - one generic message for the whole batch; already
// committed files stay committed.
func ErrUploadFailed(err error) *AppError {
	return Wrap(err, CodeExternalServiceError, "upload", "Error uploading images", http.StatusBadGateway)
}

// --- Session lifecycle ---

// ErrSessionNotFound - the form session id is unknown or already closed.
var ErrSessionNotFound = New(
	CodeNotFound,
	"form",
	"Form session not found",
	http.StatusNotFound,
)

// ErrEditLocked - the operation is not available in edit mode
// (edit only permits recategorization).
var ErrEditLocked = New(
	CodeInvalidOperation,
	"form",
	"Editing an instrument only allows changing its category",
	http.StatusBadRequest,
)

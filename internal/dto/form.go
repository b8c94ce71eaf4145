package dto

import "musicstore_admin/internal/models"

// OpenFormRequest opens (or re-opens) a product form session.
// Source is required in edit mode and ignored in create mode.
type OpenFormRequest struct {
	Mode   string             `json:"mode" validate:"required,oneof=create edit"`
	Source *models.Instrument `json:"source,omitempty"`
}

// FieldChangeRequest mirrors a single form-field change event.
// Kind carries the input kind so checkbox values can be coerced.
type FieldChangeRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
	Kind  string `json:"kind" validate:"omitempty,oneof=text number checkbox select"`
}

// FormState is the snapshot the UI renders after every operation.
type FormState struct {
	SessionID  string              `json:"sessionId"`
	Mode       string              `json:"mode"`
	Form       models.Instrument   `json:"form"`
	Categories []models.Category   `json:"categories"`
	Images     []models.ImageEntry `json:"images"`
	Uploading  bool                `json:"uploading"`
}

// SubmitResult notifies the caller of the persisted record and the
// success message to toast.
type SubmitResult struct {
	Instrument *models.Instrument `json:"instrument"`
	Message    string             `json:"message"`
}

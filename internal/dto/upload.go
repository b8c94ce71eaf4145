package dto

// PurgeImageResult is the provider's answer to a delete request,
// passed through verbatim.
type PurgeImageResult struct {
	PublicID string `json:"publicId"`
	Result   string `json:"result"`
}

package models

// ImageStatus tracks where an image is in its upload lifecycle.
type ImageStatus string

const (
	// ImagePending - staged locally, not yet uploaded to the provider.
	ImagePending ImageStatus = "pending"
	// ImageUploaded - the provider returned a descriptor for it.
	ImageUploaded ImageStatus = "uploaded"
)

// ImageDescriptor is the metadata the image host returns for one upload.
type ImageDescriptor struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Format   string `json:"format,omitempty"`
}

// ImageEntry is one image in the form, in display order. A single ordered
// sequence of entries replaces separate file/preview/metadata lists so the
// pieces of one logical image can never drift out of step.
//
// Invariants:
//   - Status == ImageUploaded implies Descriptor != nil.
//   - Existing entries come from the record being edited; they never carry
//     a Handle and are never released.
type ImageEntry struct {
	Status     ImageStatus      `json:"status"`
	Preview    string           `json:"preview"`
	Existing   bool             `json:"existing"`
	Handle     *PreviewHandle   `json:"-"`
	Descriptor *ImageDescriptor `json:"descriptor,omitempty"`
}

// ExistingImageEntry builds an entry for an already-hosted image URL
// (edit-mode hydration). The URL doubles as preview and descriptor.
func ExistingImageEntry(url string) *ImageEntry {
	return &ImageEntry{
		Status:     ImageUploaded,
		Preview:    url,
		Existing:   true,
		Descriptor: &ImageDescriptor{URL: url},
	}
}

package models

// Instrument is the product-form record. Text fields stay strings end to
// end: the form passes raw input through and the catalog API owns parsing.
// ID is zero while creating and set when editing an existing instrument.
type Instrument struct {
	ID          int      `json:"id,omitempty"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Model       string   `json:"model"`
	Year        string   `json:"year"`
	Stock       string   `json:"stock"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	Available   bool     `json:"available"`
	IDCategory  int      `json:"idCategory"`
	ImageURLs   []string `json:"imageUrls,omitempty"`
}

// IsNew reports whether the record has no identity yet (create mode).
func (i *Instrument) IsNew() bool {
	return i.ID == 0
}

package models

// Category is read-only reference data fetched from the catalog API.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

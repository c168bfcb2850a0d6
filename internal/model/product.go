package model

import "time"

// Product represents a catalog item.
// This is a pure domain model with no database-specific dependencies or tags.
// Image is either empty or names a blob that exists in the blob store at the
// time the record is readable.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Rating      float64   `json:"rating"`
	Image       string    `json:"image"`
	CreatedAt   time.Time `json:"created_at"`
}

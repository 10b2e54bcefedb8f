package model

import "time"

// Product is a sellable catalog entry. Name always carries the size suffix
// when a size is set.
type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Category    string     `json:"category"`
	Size        string     `json:"size,omitempty"`
	Color       string     `json:"color,omitempty"`
	Description string     `json:"description"`
	Price       float64    `json:"price"`
	OldPrice    *float64   `json:"oldPrice,omitempty"`
	Images      []string   `json:"image"`
	AuthorID    int64      `json:"-"`
	Author      *AuthorRef `json:"author,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// AuthorRef is the public projection of a user referenced by a product or
// review. Which fields are populated depends on the query.
type AuthorRef struct {
	ID       int64  `json:"id"`
	Email    string `json:"email,omitempty"`
	Username string `json:"username,omitempty"`
}

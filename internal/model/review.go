package model

import "time"

// Review is a shopper's rating of a single product.
type Review struct {
	ID        int64      `json:"id"`
	ProductID string     `json:"productId"`
	UserID    int64      `json:"-"`
	User      *AuthorRef `json:"user,omitempty"`
	Rating    int        `json:"rating"`
	Comment   string     `json:"comment"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

package domain

import (
	"strconv"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Review is immutable once created.
type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewFields is the validated payload for posting a review.
type ReviewFields struct {
	Content string
	Rating  int
}

// Raw renders the fields back into validator input.
func (f ReviewFields) Raw() map[string]string {
	return map[string]string{
		"content": f.Content,
		"rating":  strconv.Itoa(f.Rating),
	}
}

// RatingSummary aggregates the ratings of one product.
type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

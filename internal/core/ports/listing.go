package ports

import "github.com/handcrafted-haven/marketplace/internal/core/domain"

// PageRequest is a 1-based page number and a positive page size.
type PageRequest struct {
	Page int
	Size int
}

// Page is one bounded slice of a filtered collection.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// ProductFilter narrows the product listing. Zero values are no-ops.
// Price bounds are already in minor units.
type ProductFilter struct {
	Query    string
	Category domain.Category
	MinPrice *domain.Cents
	MaxPrice *domain.Cents
	SellerID string
}

// SellerFilter narrows the artisan listing.
type SellerFilter struct {
	Query string
}

// ReviewFilter narrows the review listing.
type ReviewFilter struct {
	Query     string // content or author name
	ProductID string
	UserID    string
}

// StoryFilter narrows the story listing.
type StoryFilter struct {
	SellerID string
}

package ports

import (
	"context"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

// OwnerLookup resolves the owning user id of a mutable resource.
// It returns domain.ErrNotFound when the resource does not exist.
type OwnerLookup interface {
	OwnerOf(ctx context.Context, kind domain.ResourceKind, id string) (string, error)
}

// ProductRepository defines persistence operations for products.
type ProductRepository interface {
	// List returns a page of products matching filter, ordered by name, and the total match count.
	List(ctx context.Context, filter ProductFilter, page PageRequest) ([]domain.Product, int64, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	CountBySeller(ctx context.Context, sellerID string) (int64, error)
	// Featured picks one product at random; an empty catalogue yields domain.ErrNotFound.
	Featured(ctx context.Context) (*domain.Product, error)
	Insert(ctx context.Context, id, sellerID string, fields domain.ProductFields) (*domain.Product, error)
	// UpdateOwned writes only when the row is owned by ownerID; zero affected rows yields domain.ErrNotFound.
	UpdateOwned(ctx context.Context, id, ownerID string, fields domain.ProductFields) (*domain.Product, error)
	DeleteOwned(ctx context.Context, id, ownerID string) error
}

// ReviewRepository defines persistence operations for reviews. Reviews are insert-only.
type ReviewRepository interface {
	// List returns a page of reviews, newest first, with author names.
	List(ctx context.Context, filter ReviewFilter, page PageRequest) ([]domain.Review, int64, error)
	Summary(ctx context.Context, productID string) (domain.RatingSummary, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	// Insert fails with domain.ErrNotFound when productID does not resolve.
	Insert(ctx context.Context, id, productID, userID string, fields domain.ReviewFields) (*domain.Review, error)
}

// SellerRepository reads artisan accounts.
type SellerRepository interface {
	List(ctx context.Context, filter SellerFilter, page PageRequest) ([]domain.Seller, int64, error)
	// FindByID returns domain.ErrNotFound for unknown ids and for non-artisan accounts.
	FindByID(ctx context.Context, id string) (*domain.Seller, error)
}

// StoryRepository defines persistence operations for seller stories.
type StoryRepository interface {
	// List returns a page of stories, newest first.
	List(ctx context.Context, filter StoryFilter, page PageRequest) ([]domain.SellerStory, int64, error)
	Latest(ctx context.Context, sellerID string) (*domain.SellerStory, error)
	CountBySeller(ctx context.Context, sellerID string) (int64, error)
	Insert(ctx context.Context, id, userID string, fields domain.StoryFields) (*domain.SellerStory, error)
	UpdateOwned(ctx context.Context, id, ownerID string, fields domain.StoryFields) (*domain.SellerStory, error)
	DeleteOwned(ctx context.Context, id, ownerID string) error
}

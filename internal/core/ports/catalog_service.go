package ports

import (
	"context"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

// ProductQuery carries the raw listing parameters as received from the caller.
// MinPrice and MaxPrice are display units (dollars).
type ProductQuery struct {
	Query    string
	Category string
	MinPrice string
	MaxPrice string
	Page     int
}

// ProductDetail is a product with its reviews and rating summary.
type ProductDetail struct {
	Product *domain.Product
	Reviews []domain.Review
	Rating  domain.RatingSummary
}

// ProductService defines product use cases.
type ProductService interface {
	List(ctx context.Context, q ProductQuery) (*Page[domain.Product], error)
	Get(ctx context.Context, id string) (*ProductDetail, error)
	ListBySeller(ctx context.Context, sellerID string, page int) (*Page[domain.Product], error)
	ListMine(ctx context.Context, id *domain.Identity, page int) (*Page[domain.Product], error)
	Create(ctx context.Context, id *domain.Identity, raw map[string]string) (*domain.Product, error)
	Update(ctx context.Context, id *domain.Identity, productID string, raw map[string]string) (*domain.Product, error)
	Delete(ctx context.Context, id *domain.Identity, productID string) error
}

// ReviewQuery carries the raw review listing parameters.
type ReviewQuery struct {
	Query     string
	ProductID string
	UserID    string
	Page      int
}

// ReviewService defines review use cases.
type ReviewService interface {
	List(ctx context.Context, q ReviewQuery) (*Page[domain.Review], error)
	Create(ctx context.Context, id *domain.Identity, productID string, raw map[string]string) (*domain.Review, error)
}

// SellerProfile is an artisan with their catalogue and stories.
type SellerProfile struct {
	Seller   *domain.Seller
	Products []domain.Product
	Stories  []domain.SellerStory
}

// SellerService defines artisan directory use cases.
type SellerService interface {
	List(ctx context.Context, query string, page int) (*Page[domain.Seller], error)
	Get(ctx context.Context, id string) (*SellerProfile, error)
}

// StoryService defines seller story use cases.
type StoryService interface {
	ListBySeller(ctx context.Context, sellerID string, page int) (*Page[domain.SellerStory], error)
	Latest(ctx context.Context, sellerID string) (*domain.SellerStory, error)
	Create(ctx context.Context, id *domain.Identity, raw map[string]string) (*domain.SellerStory, error)
	Update(ctx context.Context, id *domain.Identity, storyID string, raw map[string]string) (*domain.SellerStory, error)
	Delete(ctx context.Context, id *domain.Identity, storyID string) error
}

package service

import (
	"context"
	"strings"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/listing"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

// profileLimit caps the products and stories embedded in a seller profile.
const profileLimit = 100

type sellerService struct {
	sellers  ports.SellerRepository
	products ports.ProductRepository
	stories  ports.StoryRepository
	pageSize int
}

// NewSellerService returns a SellerService implementation.
func NewSellerService(
	sellers ports.SellerRepository,
	products ports.ProductRepository,
	stories ports.StoryRepository,
	pageSize int,
) ports.SellerService {
	return &sellerService{sellers: sellers, products: products, stories: stories, pageSize: pageSize}
}

// List pages through artisans by name. query matches name or email.
func (s *sellerService) List(ctx context.Context, query string, page int) (*ports.Page[domain.Seller], error) {
	req := listing.Request(page, s.pageSize, listing.DefaultSellerPageSize)
	items, total, err := s.sellers.List(ctx, ports.SellerFilter{Query: strings.TrimSpace(query)}, req)
	if err != nil {
		return nil, err
	}
	return listing.NewPage(items, total, req), nil
}

// Get returns the artisan with their products and stories.
func (s *sellerService) Get(ctx context.Context, id string) (*ports.SellerProfile, error) {
	if !knownID(id) {
		return nil, domain.ErrNotFound
	}
	seller, err := s.sellers.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	first := ports.PageRequest{Page: 1, Size: profileLimit}
	products, _, err := s.products.List(ctx, ports.ProductFilter{SellerID: id}, first)
	if err != nil {
		return nil, err
	}
	stories, _, err := s.stories.List(ctx, ports.StoryFilter{SellerID: id}, first)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []domain.Product{}
	}
	if stories == nil {
		stories = []domain.SellerStory{}
	}
	return &ports.SellerProfile{Seller: seller, Products: products, Stories: stories}, nil
}

package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/listing"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

// detailReviewLimit caps the reviews embedded in a product detail; the full
// history is paged through the review listing.
const detailReviewLimit = 20

type productService struct {
	products ports.ProductRepository
	reviews  ports.ReviewRepository
	pipe     *Pipeline
	pageSize int
	log      zerolog.Logger
}

// NewProductService returns a ProductService implementation.
func NewProductService(
	products ports.ProductRepository,
	reviews ports.ReviewRepository,
	pipe *Pipeline,
	pageSize int,
	log zerolog.Logger,
) ports.ProductService {
	return &productService{
		products: products,
		reviews:  reviews,
		pipe:     pipe,
		pageSize: pageSize,
		log:      log,
	}
}

// List returns one page of the catalogue, ordered by name.
func (s *productService) List(ctx context.Context, q ports.ProductQuery) (*ports.Page[domain.Product], error) {
	filter, err := listing.ProductFilter(q)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter, q.Page)
}

func (s *productService) list(ctx context.Context, filter ports.ProductFilter, page int) (*ports.Page[domain.Product], error) {
	req := listing.Request(page, s.pageSize, listing.DefaultProductPageSize)
	items, total, err := s.products.List(ctx, filter, req)
	if err != nil {
		return nil, err
	}
	return listing.NewPage(items, total, req), nil
}

// Get returns the product with its newest reviews and rating summary.
func (s *productService) Get(ctx context.Context, id string) (*ports.ProductDetail, error) {
	if !knownID(id) {
		return nil, domain.ErrNotFound
	}
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, _, err := s.reviews.List(ctx, ports.ReviewFilter{ProductID: id}, ports.PageRequest{Page: 1, Size: detailReviewLimit})
	if err != nil {
		return nil, err
	}
	summary, err := s.reviews.Summary(ctx, id)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return &ports.ProductDetail{Product: p, Reviews: reviews, Rating: summary}, nil
}

// ListBySeller pages through one artisan's catalogue.
func (s *productService) ListBySeller(ctx context.Context, sellerID string, page int) (*ports.Page[domain.Product], error) {
	if !knownID(sellerID) {
		return nil, domain.ErrNotFound
	}
	return s.list(ctx, ports.ProductFilter{SellerID: sellerID}, page)
}

// ListMine is ListBySeller for the acting artisan.
func (s *productService) ListMine(ctx context.Context, id *domain.Identity, page int) (*ports.Page[domain.Product], error) {
	if id.Anonymous() {
		return nil, domain.ErrUnauthenticated
	}
	if !id.Role.IsArtisan() {
		return nil, domain.ErrForbidden
	}
	return s.ListBySeller(ctx, id.UserID, page)
}

func (s *productService) Create(ctx context.Context, id *domain.Identity, raw map[string]string) (*domain.Product, error) {
	if err := s.pipe.Authorizer.Require(ctx, id, domain.ActionCreate, domain.ResourceProduct, ""); err != nil {
		return nil, err
	}
	fields, err := s.pipe.Validator.Product(raw)
	if err != nil {
		return nil, s.pipe.invalid(domain.ResourceProduct, err)
	}

	m := Mutation{Action: domain.ActionCreate, Kind: domain.ResourceProduct, ResourceID: newID(), Actor: id}
	var created *domain.Product
	err = s.pipe.Executor.Execute(ctx, m, func(ctx context.Context) error {
		p, err := s.products.Insert(ctx, m.ResourceID, id.UserID, fields)
		created = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *productService) Update(ctx context.Context, id *domain.Identity, productID string, raw map[string]string) (*domain.Product, error) {
	if err := s.pipe.Authorizer.Require(ctx, id, domain.ActionUpdate, domain.ResourceProduct, productID); err != nil {
		return nil, err
	}
	fields, err := s.pipe.Validator.Product(raw)
	if err != nil {
		return nil, s.pipe.invalid(domain.ResourceProduct, err)
	}

	m := Mutation{Action: domain.ActionUpdate, Kind: domain.ResourceProduct, ResourceID: productID, Actor: id}
	var updated *domain.Product
	err = s.pipe.Executor.Execute(ctx, m, func(ctx context.Context) error {
		p, err := s.products.UpdateOwned(ctx, productID, id.UserID, fields)
		updated = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *productService) Delete(ctx context.Context, id *domain.Identity, productID string) error {
	if err := s.pipe.Authorizer.Require(ctx, id, domain.ActionDelete, domain.ResourceProduct, productID); err != nil {
		return err
	}
	m := Mutation{Action: domain.ActionDelete, Kind: domain.ResourceProduct, ResourceID: productID, Actor: id}
	return s.pipe.Executor.Execute(ctx, m, func(ctx context.Context) error {
		return s.products.DeleteOwned(ctx, productID, id.UserID)
	})
}

package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/handcrafted-haven/marketplace/internal/api/metrics"
	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/listing"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

// ReviewDedup remembers recent review submissions (Redis) so that an identical
// resubmission returns the first review instead of inserting a copy.
type ReviewDedup interface {
	Seen(ctx context.Context, userID, productID string, fields domain.ReviewFields) (reviewID string, ok bool, err error)
	Remember(ctx context.Context, userID, productID string, fields domain.ReviewFields, reviewID string) error
}

type reviewService struct {
	reviews  ports.ReviewRepository
	dedup    ReviewDedup
	pipe     *Pipeline
	pageSize int
	log      zerolog.Logger
}

// NewReviewService returns a ReviewService implementation. dedup may be nil.
func NewReviewService(
	reviews ports.ReviewRepository,
	dedup ReviewDedup,
	pipe *Pipeline,
	pageSize int,
	log zerolog.Logger,
) ports.ReviewService {
	return &reviewService{
		reviews:  reviews,
		dedup:    dedup,
		pipe:     pipe,
		pageSize: pageSize,
		log:      log,
	}
}

// List returns reviews newest first. Query matches content or author name.
func (s *reviewService) List(ctx context.Context, q ports.ReviewQuery) (*ports.Page[domain.Review], error) {
	filter := ports.ReviewFilter{
		Query:     strings.TrimSpace(q.Query),
		ProductID: strings.TrimSpace(q.ProductID),
		UserID:    strings.TrimSpace(q.UserID),
	}
	if (filter.ProductID != "" && !knownID(filter.ProductID)) || (filter.UserID != "" && !knownID(filter.UserID)) {
		return nil, domain.ErrNotFound
	}

	req := listing.Request(q.Page, s.pageSize, listing.DefaultReviewPageSize)
	items, total, err := s.reviews.List(ctx, filter, req)
	if err != nil {
		return nil, err
	}
	return listing.NewPage(items, total, req), nil
}

// Create posts a review on productID. Any signed-in account may review,
// including the product's own seller.
func (s *reviewService) Create(ctx context.Context, id *domain.Identity, productID string, raw map[string]string) (*domain.Review, error) {
	if err := s.pipe.Authorizer.Require(ctx, id, domain.ActionCreate, domain.ResourceReview, productID); err != nil {
		return nil, err
	}
	fields, err := s.pipe.Validator.Review(raw)
	if err != nil {
		return nil, s.pipe.invalid(domain.ResourceReview, err)
	}
	if !knownID(productID) {
		return nil, domain.ErrNotFound
	}

	if prior := s.resubmission(ctx, id.UserID, productID, fields); prior != nil {
		return prior, nil
	}

	m := Mutation{Action: domain.ActionCreate, Kind: domain.ResourceReview, ResourceID: newID(), Actor: id}
	var created *domain.Review
	err = s.pipe.Executor.Execute(ctx, m, func(ctx context.Context) error {
		r, err := s.reviews.Insert(ctx, m.ResourceID, productID, id.UserID, fields)
		created = r
		return err
	})
	if err != nil {
		return nil, err
	}

	if s.dedup != nil {
		if err := s.dedup.Remember(ctx, id.UserID, productID, fields, created.ID); err != nil {
			s.log.Warn().Err(err).Str("review_id", created.ID).Msg("failed to set review dedup key")
		}
	}
	return created, nil
}

// resubmission returns the earlier review for an identical submission, or nil.
// Dedup is best effort: store failures fall through to a normal insert.
func (s *reviewService) resubmission(ctx context.Context, userID, productID string, fields domain.ReviewFields) *domain.Review {
	if s.dedup == nil {
		return nil
	}
	reviewID, ok, err := s.dedup.Seen(ctx, userID, productID, fields)
	if err != nil {
		s.log.Warn().Err(err).Str("product_id", productID).Msg("review dedup check failed, inserting anyway")
		return nil
	}
	if !ok {
		metrics.ReviewDedupTotal.WithLabelValues("miss").Inc()
		return nil
	}
	prior, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		s.log.Debug().Err(err).Str("review_id", reviewID).Msg("remembered review is gone")
		metrics.ReviewDedupTotal.WithLabelValues("miss").Inc()
		return nil
	}
	metrics.ReviewDedupTotal.WithLabelValues("hit").Inc()
	s.log.Debug().Str("review_id", reviewID).Msg("duplicate review submission skipped")
	return prior
}

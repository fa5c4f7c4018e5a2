package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

const reviewsFrom = "reviews r JOIN users u ON u.id = r.user_id"

// ReviewRepository implements ports.ReviewRepository on PostgreSQL.
type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

var _ ports.ReviewRepository = (*ReviewRepository)(nil)

// List returns reviews newest first. Free text matches content or author name.
func (r *ReviewRepository) List(ctx context.Context, f ports.ReviewFilter, p ports.PageRequest) ([]domain.Review, int64, error) {
	q := newListQuery(reviewColumns, reviewsFrom, "r.created_at DESC, r.id DESC").
		Search(f.Query, "r.content", "u.name")
	if f.ProductID != "" {
		if !validID(f.ProductID) {
			return []domain.Review{}, 0, nil
		}
		q.Eq("r.product_id", f.ProductID)
	}
	if f.UserID != "" {
		if !validID(f.UserID) {
			return []domain.Review{}, 0, nil
		}
		q.Eq("r.user_id", f.UserID)
	}
	return runList(ctx, r.pool, "list reviews", q, p, scanReview)
}

// Summary returns the average rating (one decimal) and review count.
func (r *ReviewRepository) Summary(ctx context.Context, productID string) (domain.RatingSummary, error) {
	if !validID(productID) {
		return domain.RatingSummary{}, nil
	}
	var (
		avg   float64
		count int
	)
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(rating), 0)::float8, COUNT(*) FROM reviews WHERE product_id = $1`, productID,
	).Scan(&avg, &count)
	if err != nil {
		return domain.RatingSummary{}, storageErr("review summary", err)
	}
	return domain.RatingSummary{Average: math.Round(avg*10) / 10, Count: count}, nil
}

// CountByUser returns how many reviews userID has written.
func (r *ReviewRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	if !validID(userID) {
		return 0, nil
	}
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, storageErr("count reviews", err)
	}
	return n, nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM `+reviewsFrom+` WHERE r.id = $1`, id)
	return one("find review", "review "+id, row, scanReview)
}

// Insert stores the review and returns it with its author's name. A product
// that does not exist surfaces as domain.ErrNotFound.
func (r *ReviewRepository) Insert(ctx context.Context, id, productID, userID string, f domain.ReviewFields) (*domain.Review, error) {
	if !validID(productID) {
		return nil, domain.ErrNotFound
	}
	const query = `
		WITH r AS (
			INSERT INTO reviews (id, product_id, user_id, content, rating)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING *
		)
		SELECT ` + reviewColumns + ` FROM r JOIN users u ON u.id = r.user_id`

	row := r.pool.QueryRow(ctx, query, id, productID, userID, f.Content, f.Rating)
	rv, err := scanReview(row)
	if err != nil {
		if isForeignKey(err) {
			return nil, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}
		return nil, storageErr("insert review", err)
	}
	return &rv, nil
}

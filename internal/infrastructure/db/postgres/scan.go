package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/listing"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

// errSchemaMismatch marks a row whose stored values cannot be decoded into
// the domain model.
var errSchemaMismatch = errors.New("schema mismatch")

const productColumns = `p.id::text, p.name, p.description, p.image_url, p.price_cents, p.category,
	p.seller_id::text, p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p        domain.Product
		cents    int64
		category string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.ImageURL, &cents, &category, &p.SellerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return p, err
	}
	c, ok := domain.ParseCategory(category)
	if !ok || c == domain.CategoryAll {
		return p, fmt.Errorf("%w: product %s has category %q", errSchemaMismatch, p.ID, category)
	}
	if cents <= 0 {
		return p, fmt.Errorf("%w: product %s has price %d", errSchemaMismatch, p.ID, cents)
	}
	p.PriceCents, p.Category = domain.Cents(cents), c
	return p, nil
}

const reviewColumns = `r.id::text, r.product_id::text, r.user_id::text, u.name, r.content, r.rating, r.created_at`

func scanReview(row pgx.Row) (domain.Review, error) {
	var r domain.Review
	if err := row.Scan(&r.ID, &r.ProductID, &r.UserID, &r.UserName, &r.Content, &r.Rating, &r.CreatedAt); err != nil {
		return r, err
	}
	if r.Rating < domain.MinRating || r.Rating > domain.MaxRating {
		return r, fmt.Errorf("%w: review %s has rating %d", errSchemaMismatch, r.ID, r.Rating)
	}
	return r, nil
}

const storyColumns = `s.id::text, s.user_id::text, s.title, s.story, s.created_at, s.updated_at`

func scanStory(row pgx.Row) (domain.SellerStory, error) {
	var s domain.SellerStory
	err := row.Scan(&s.ID, &s.UserID, &s.Title, &s.Story, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

const userColumns = `id::text, name, email, password, account_type, created_at`

func scanUser(row pgx.Row) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.CreatedAt); err != nil {
		return u, err
	}
	r, ok := domain.ParseRole(role)
	if !ok {
		return u, fmt.Errorf("%w: user %s has account type %q", errSchemaMismatch, u.ID, role)
	}
	u.Role = r
	return u, nil
}

// runList executes the count and page statements of q. Pages past the end
// skip the second round-trip and come back empty.
func runList[T any](ctx context.Context, pool *pgxpool.Pool, op string, q *listQuery, p ports.PageRequest, scan func(pgx.Row) (T, error)) ([]T, int64, error) {
	countSQL, countArgs := q.Count()
	var total int64
	if err := pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, storageErr(op+" count", err)
	}
	if total == 0 || int64(listing.Offset(p)) >= total {
		return []T{}, total, nil
	}

	sql, args := q.Page(p)
	rows, err := pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, storageErr(op, err)
	}
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (T, error) {
		return scan(row)
	})
	if err != nil {
		return nil, 0, storageErr(op+" scan", err)
	}
	return items, total, nil
}

// one maps a single-row read onto the domain errors.
func one[T any](op, what string, row pgx.Row, scan func(pgx.Row) (T, error)) (*T, error) {
	v, err := scan(row)
	if isNoRows(err) {
		return nil, fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	if err != nil {
		return nil, storageErr(op, err)
	}
	return &v, nil
}

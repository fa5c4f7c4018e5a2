package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

// OwnerLookup resolves resource owners for the authorizer.
type OwnerLookup struct {
	pool *pgxpool.Pool
}

func NewOwnerLookup(pool *pgxpool.Pool) *OwnerLookup {
	return &OwnerLookup{pool: pool}
}

var _ ports.OwnerLookup = (*OwnerLookup)(nil)

var ownerQueries = map[domain.ResourceKind]string{
	domain.ResourceProduct: `SELECT seller_id::text FROM products WHERE id = $1`,
	domain.ResourceStory:   `SELECT user_id::text FROM seller_stories WHERE id = $1`,
	domain.ResourceReview:  `SELECT user_id::text FROM reviews WHERE id = $1`,
}

// OwnerOf returns the owning user id, read fresh on every call.
func (l *OwnerLookup) OwnerOf(ctx context.Context, kind domain.ResourceKind, id string) (string, error) {
	query, ok := ownerQueries[kind]
	if !ok {
		return "", fmt.Errorf("owner lookup: unknown resource kind %q", kind)
	}
	return ownerOf(ctx, l.pool, query, string(kind), id)
}

func ownerOf(ctx context.Context, pool *pgxpool.Pool, query, what, id string) (string, error) {
	if !validID(id) {
		return "", domain.ErrNotFound
	}
	var owner string
	err := pool.QueryRow(ctx, query, id).Scan(&owner)
	if isNoRows(err) {
		return "", fmt.Errorf("%s %s: %w", what, id, domain.ErrNotFound)
	}
	if err != nil {
		return "", storageErr("owner of "+what, err)
	}
	return owner, nil
}

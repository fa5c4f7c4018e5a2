package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

// StoryRepository implements ports.StoryRepository on PostgreSQL.
type StoryRepository struct {
	pool *pgxpool.Pool
}

func NewStoryRepository(pool *pgxpool.Pool) *StoryRepository {
	return &StoryRepository{pool: pool}
}

var _ ports.StoryRepository = (*StoryRepository)(nil)

func (r *StoryRepository) List(ctx context.Context, f ports.StoryFilter, p ports.PageRequest) ([]domain.SellerStory, int64, error) {
	q := newListQuery(storyColumns, "seller_stories s", "s.created_at DESC, s.id DESC")
	if f.SellerID != "" {
		if !validID(f.SellerID) {
			return []domain.SellerStory{}, 0, nil
		}
		q.Eq("s.user_id", f.SellerID)
	}
	return runList(ctx, r.pool, "list stories", q, p, scanStory)
}

// Latest returns the seller's newest story.
func (r *StoryRepository) Latest(ctx context.Context, sellerID string) (*domain.SellerStory, error) {
	if !validID(sellerID) {
		return nil, domain.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+storyColumns+` FROM seller_stories s
		WHERE s.user_id = $1 ORDER BY s.created_at DESC, s.id DESC LIMIT 1`, sellerID)
	return one("latest story", "story of seller "+sellerID, row, scanStory)
}

func (r *StoryRepository) CountBySeller(ctx context.Context, sellerID string) (int64, error) {
	if !validID(sellerID) {
		return 0, nil
	}
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM seller_stories WHERE user_id = $1`, sellerID).Scan(&n); err != nil {
		return 0, storageErr("count stories", err)
	}
	return n, nil
}

func (r *StoryRepository) Insert(ctx context.Context, id, userID string, f domain.StoryFields) (*domain.SellerStory, error) {
	const query = `
		INSERT INTO seller_stories AS s (id, user_id, title, story)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + storyColumns

	st, err := scanStory(r.pool.QueryRow(ctx, query, id, userID, f.Title, f.Story))
	if err != nil {
		if isForeignKey(err) {
			return nil, fmt.Errorf("seller %s: %w", userID, domain.ErrNotFound)
		}
		return nil, storageErr("insert story", err)
	}
	return &st, nil
}

// UpdateOwned rewrites the story only when it belongs to ownerID, in one statement.
func (r *StoryRepository) UpdateOwned(ctx context.Context, id, ownerID string, f domain.StoryFields) (*domain.SellerStory, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	const query = `
		UPDATE seller_stories AS s
		SET title = $3, story = $4, updated_at = now()
		WHERE s.id = $1 AND s.user_id = $2
		RETURNING ` + storyColumns

	return one("update story", "story "+id, r.pool.QueryRow(ctx, query, id, ownerID, f.Title, f.Story), scanStory)
}

// DeleteOwned removes the story only when it belongs to ownerID.
func (r *StoryRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM seller_stories WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return storageErr("delete story", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("story %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

// ProductRepository implements ports.ProductRepository on PostgreSQL.
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return &ProductRepository{pool: pool}
}

var _ ports.ProductRepository = (*ProductRepository)(nil)

// List returns products ordered by name (id breaks ties) and the total match count.
func (r *ProductRepository) List(ctx context.Context, f ports.ProductFilter, p ports.PageRequest) ([]domain.Product, int64, error) {
	q := newListQuery(productColumns, "products p", "p.name ASC, p.id ASC").
		Search(f.Query, "p.name", "p.description")
	if f.Category != "" && f.Category != domain.CategoryAll {
		q.Eq("p.category", string(f.Category))
	}
	if f.MinPrice != nil {
		q.Cmp("p.price_cents", ">=", int64(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		q.Cmp("p.price_cents", "<=", int64(*f.MaxPrice))
	}
	if f.SellerID != "" {
		if !validID(f.SellerID) {
			return []domain.Product{}, 0, nil
		}
		q.Eq("p.seller_id", f.SellerID)
	}
	return runList(ctx, r.pool, "list products", q, p, scanProduct)
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id)
	return one("find product", "product "+id, row, scanProduct)
}

func (r *ProductRepository) CountBySeller(ctx context.Context, sellerID string) (int64, error) {
	if !validID(sellerID) {
		return 0, nil
	}
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE seller_id = $1`, sellerID).Scan(&n); err != nil {
		return 0, storageErr("count products", err)
	}
	return n, nil
}

// Featured picks one product at random. An empty catalogue yields domain.ErrNotFound.
func (r *ProductRepository) Featured(ctx context.Context) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products p ORDER BY random() LIMIT 1`)
	return one("featured product", "featured product", row, scanProduct)
}

func (r *ProductRepository) Insert(ctx context.Context, id, sellerID string, f domain.ProductFields) (*domain.Product, error) {
	const query = `
		INSERT INTO products AS p (id, name, description, image_url, price_cents, category, seller_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + productColumns

	row := r.pool.QueryRow(ctx, query, id, f.Name, f.Description, f.ImageURL, int64(f.PriceCents), string(f.Category), sellerID)
	p, err := scanProduct(row)
	if err != nil {
		if isForeignKey(err) {
			return nil, fmt.Errorf("seller %s: %w", sellerID, domain.ErrNotFound)
		}
		return nil, storageErr("insert product", err)
	}
	return &p, nil
}

// UpdateOwned rewrites the product only when it belongs to ownerID, in one statement.
func (r *ProductRepository) UpdateOwned(ctx context.Context, id, ownerID string, f domain.ProductFields) (*domain.Product, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	const query = `
		UPDATE products AS p
		SET name = $3, description = $4, image_url = $5, price_cents = $6, category = $7, updated_at = now()
		WHERE p.id = $1 AND p.seller_id = $2
		RETURNING ` + productColumns

	row := r.pool.QueryRow(ctx, query, id, ownerID, f.Name, f.Description, f.ImageURL, int64(f.PriceCents), string(f.Category))
	return one("update product", "product "+id, row, scanProduct)
}

// DeleteOwned removes the product only when it belongs to ownerID.
func (r *ProductRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	if !validID(id) {
		return domain.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1 AND seller_id = $2`, id, ownerID)
	if err != nil {
		return storageErr("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

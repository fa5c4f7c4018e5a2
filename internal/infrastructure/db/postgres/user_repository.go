package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

// UserRepository implements ports.UserRepository and ports.SellerRepository.
// Sellers are the artisan rows of the users table.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

var _ ports.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	const query = `
		INSERT INTO users (id, name, email, password, account_type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	created, err := scanUser(r.pool.QueryRow(ctx, query, u.ID, u.Name, u.Email, u.PasswordHash, string(u.Role), u.CreatedAt))
	if err != nil {
		if isDuplicate(err) {
			return nil, fmt.Errorf("email %s: %w", u.Email, domain.ErrUserExists)
		}
		return nil, storageErr("create user", err)
	}
	return &created, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return one("find user by email", "user", row, scanUser)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return one("find user", "user "+id, row, scanUser)
}

// SellerRepository exposes the artisan directory over the same table.
type SellerRepository struct {
	pool *pgxpool.Pool
}

func NewSellerRepository(pool *pgxpool.Pool) *SellerRepository {
	return &SellerRepository{pool: pool}
}

var _ ports.SellerRepository = (*SellerRepository)(nil)

const sellerColumns = `id::text, name, email`

func scanSeller(row pgx.Row) (domain.Seller, error) {
	var s domain.Seller
	err := row.Scan(&s.ID, &s.Name, &s.Email)
	return s, err
}

// List returns artisans ordered by name. Free text matches name or email.
func (r *SellerRepository) List(ctx context.Context, f ports.SellerFilter, p ports.PageRequest) ([]domain.Seller, int64, error) {
	q := newListQuery(sellerColumns, "users", "name ASC, id ASC").
		Eq("account_type", string(domain.RoleArtisan)).
		Search(f.Query, "name", "email")
	return runList(ctx, r.pool, "list sellers", q, p, scanSeller)
}

func (r *SellerRepository) FindByID(ctx context.Context, id string) (*domain.Seller, error) {
	if !validID(id) {
		return nil, domain.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+sellerColumns+` FROM users WHERE id = $1 AND account_type = $2`, id, string(domain.RoleArtisan))
	return one("find seller", "seller "+id, row, scanSeller)
}

package ports

import (
	"context"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

// RegisterInput carries a new account's raw details.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Session is an issued session token and the account it belongs to.
type Session struct {
	Token     string
	ExpiresAt int64
	User      *domain.User
}

// Profile is the signed-in account plus its dashboard: artisans get their
// product and story counts, customers their review count and a featured product.
type Profile struct {
	User         *domain.User
	ProductCount int64
	StoryCount   int64
	ReviewCount  int64
	Featured     *domain.Product
}

// AuthService is the identity provider: it issues, resolves, and revokes sessions.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, id *domain.Identity) error
	// Resolve never fails: an unusable token resolves to nil (anonymous).
	Resolve(ctx context.Context, token string) *domain.Identity
	Profile(ctx context.Context, id *domain.Identity) (*Profile, error)
}

package domain

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleArtisan  Role = "artisan"
	RoleCustomer Role = "customer"
)

// ParseRole returns the role named by s and whether it is known.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleArtisan, RoleCustomer:
		return Role(s), true
	}
	return "", false
}

// IsArtisan reports whether the role may own products and stories.
func (r Role) IsArtisan() bool { return r == RoleArtisan }

// User models an account. Role is fixed at registration.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Seller is the public projection of an artisan account.
type Seller struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

package handler

import (
	"time"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// --- Auth ---

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	Token     string        `json:"token,omitempty"`
	ExpiresAt *time.Time    `json:"expires_at,omitempty"`
	User      *userResponse `json:"user,omitempty"`
}

type meResponse struct {
	User            userResponse     `json:"user"`
	ProductCount    *int64           `json:"product_count,omitempty"`
	StoryCount      *int64           `json:"story_count,omitempty"`
	ReviewCount     *int64           `json:"review_count,omitempty"`
	FeaturedProduct *productResponse `json:"featured_product,omitempty"`
}

// --- Products ---

type productResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Price       float64   `json:"price"`
	PriceCents  int64     `json:"price_cents"`
	Category    string    `json:"category"`
	SellerID    string    `json:"seller_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type productDetailResponse struct {
	productResponse
	Rating  domain.RatingSummary `json:"rating"`
	Reviews []reviewResponse     `json:"reviews"`
}

type listProductsResponse struct {
	Data       []productResponse  `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// --- Reviews ---

type reviewResponse struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Content   string    `json:"content"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

type listReviewsResponse struct {
	Data       []reviewResponse   `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// --- Sellers and stories ---

type sellerResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type storyResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Story     string    `json:"story"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type sellerProfileResponse struct {
	sellerResponse
	Products []productResponse `json:"products"`
	Stories  []storyResponse   `json:"stories"`
}

type listSellersResponse struct {
	Data       []sellerResponse   `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type listStoriesResponse struct {
	Data       []storyResponse    `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

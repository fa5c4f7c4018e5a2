package handler

import (
	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

func toPagination[T any](p *ports.Page[T]) paginationResponse {
	return paginationResponse{
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}
}

// mapAll never returns nil so empty collections render as [].
func mapAll[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt.UTC(),
	}
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.PriceCents.Dollars(),
		PriceCents:  int64(p.PriceCents),
		Category:    string(p.Category),
		SellerID:    p.SellerID,
		CreatedAt:   p.CreatedAt.UTC(),
		UpdatedAt:   p.UpdatedAt.UTC(),
	}
}

func toProductDetailResponse(d *ports.ProductDetail) productDetailResponse {
	return productDetailResponse{
		productResponse: toProductResponse(*d.Product),
		Rating:          d.Rating,
		Reviews:         mapAll(d.Reviews, toReviewResponse),
	}
}

func toProductListResponse(p *ports.Page[domain.Product]) listProductsResponse {
	return listProductsResponse{
		Data:       mapAll(p.Items, toProductResponse),
		Pagination: toPagination(p),
	}
}

func toReviewResponse(r domain.Review) reviewResponse {
	return reviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		UserID:    r.UserID,
		UserName:  r.UserName,
		Content:   r.Content,
		Rating:    r.Rating,
		CreatedAt: r.CreatedAt.UTC(),
	}
}

func toReviewListResponse(p *ports.Page[domain.Review]) listReviewsResponse {
	return listReviewsResponse{
		Data:       mapAll(p.Items, toReviewResponse),
		Pagination: toPagination(p),
	}
}

func toSellerResponse(s domain.Seller) sellerResponse {
	return sellerResponse{ID: s.ID, Name: s.Name, Email: s.Email}
}

func toSellerListResponse(p *ports.Page[domain.Seller]) listSellersResponse {
	return listSellersResponse{
		Data:       mapAll(p.Items, toSellerResponse),
		Pagination: toPagination(p),
	}
}

func toSellerProfileResponse(p *ports.SellerProfile) sellerProfileResponse {
	return sellerProfileResponse{
		sellerResponse: toSellerResponse(*p.Seller),
		Products:       mapAll(p.Products, toProductResponse),
		Stories:        mapAll(p.Stories, toStoryResponse),
	}
}

func toStoryResponse(s domain.SellerStory) storyResponse {
	return storyResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		Title:     s.Title,
		Story:     s.Story,
		CreatedAt: s.CreatedAt.UTC(),
		UpdatedAt: s.UpdatedAt.UTC(),
	}
}

func toStoryListResponse(p *ports.Page[domain.SellerStory]) listStoriesResponse {
	return listStoriesResponse{
		Data:       mapAll(p.Items, toStoryResponse),
		Pagination: toPagination(p),
	}
}

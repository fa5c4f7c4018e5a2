package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

type stubProductService struct {
	listFn   func(ctx context.Context, q ports.ProductQuery) (*ports.Page[domain.Product], error)
	getFn    func(ctx context.Context, id string) (*ports.ProductDetail, error)
	mineFn   func(ctx context.Context, id *domain.Identity, page int) (*ports.Page[domain.Product], error)
	createFn func(ctx context.Context, id *domain.Identity, raw map[string]string) (*domain.Product, error)
	updateFn func(ctx context.Context, id *domain.Identity, productID string, raw map[string]string) (*domain.Product, error)
	deleteFn func(ctx context.Context, id *domain.Identity, productID string) error
}

func (s *stubProductService) List(ctx context.Context, q ports.ProductQuery) (*ports.Page[domain.Product], error) {
	return s.listFn(ctx, q)
}

func (s *stubProductService) Get(ctx context.Context, id string) (*ports.ProductDetail, error) {
	return s.getFn(ctx, id)
}

func (s *stubProductService) ListBySeller(ctx context.Context, sellerID string, page int) (*ports.Page[domain.Product], error) {
	return s.listFn(ctx, ports.ProductQuery{Page: page})
}

func (s *stubProductService) ListMine(ctx context.Context, id *domain.Identity, page int) (*ports.Page[domain.Product], error) {
	return s.mineFn(ctx, id, page)
}

func (s *stubProductService) Create(ctx context.Context, id *domain.Identity, raw map[string]string) (*domain.Product, error) {
	return s.createFn(ctx, id, raw)
}

func (s *stubProductService) Update(ctx context.Context, id *domain.Identity, productID string, raw map[string]string) (*domain.Product, error) {
	return s.updateFn(ctx, id, productID, raw)
}

func (s *stubProductService) Delete(ctx context.Context, id *domain.Identity, productID string) error {
	return s.deleteFn(ctx, id, productID)
}

var bowl = domain.Product{
	ID:          "p-1",
	Name:        "Bowl",
	Description: "Hand-thrown stoneware",
	ImageURL:    "/img/bowl.jpg",
	PriceCents:  4500,
	Category:    domain.CategoryHomeDecor,
	SellerID:    "u-1",
}

var artisan = &domain.Identity{UserID: "u-1", Role: domain.RoleArtisan, SessionID: "s-1"}

func TestProductHandler_List_PassesFiltersAndRendersEnvelope(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		listFn: func(ctx context.Context, q ports.ProductQuery) (*ports.Page[domain.Product], error) {
			want := ports.ProductQuery{Query: "bowl", Category: "home decor", MinPrice: "10", MaxPrice: "50.5", Page: 2}
			if q != want {
				t.Fatalf("unexpected query: %+v", q)
			}
			return &ports.Page[domain.Product]{Items: []domain.Product{bowl}, Total: 7, Page: 2, PageSize: 6, TotalPages: 2}, nil
		},
	}
	h := NewProductHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/products?q=bowl&category=home+decor&min_price=10&max_price=50.5&page=2", nil)
	rec := serve(t, e, h.List, req, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp listProductsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Pagination != (paginationResponse{Total: 7, Page: 2, PageSize: 6, TotalPages: 2}) {
		t.Fatalf("unexpected pagination: %+v", resp.Pagination)
	}
	if len(resp.Data) != 1 || resp.Data[0].Price != 45 || resp.Data[0].PriceCents != 4500 {
		t.Fatalf("unexpected data: %+v", resp.Data)
	}
}

func TestProductHandler_List_EmptyRendersArray(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		listFn: func(ctx context.Context, q ports.ProductQuery) (*ports.Page[domain.Product], error) {
			return &ports.Page[domain.Product]{Page: 1, PageSize: 6}, nil
		},
	}
	h := NewProductHandler(stub)

	rec := serve(t, e, h.List, httptest.NewRequest(http.MethodGet, "/v1/products", nil), nil)
	if !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Fatalf("expected empty array, got %s", rec.Body.String())
	}
}

func TestProductHandler_List_BadPage(t *testing.T) {
	e := newEcho()
	h := NewProductHandler(&stubProductService{})

	tests := []string{"/v1/products?page=abc", "/v1/products?page=-3", "/v1/products?page=1.5"}
	for _, target := range tests {
		_, err := try(e, h.List, httptest.NewRequest(http.MethodGet, target, nil), nil)
		if err == nil {
			t.Fatalf("%s: expected error", target)
		}
	}

	_, err := try(e, h.List, httptest.NewRequest(http.MethodGet, "/v1/products?page=-3", nil), nil)
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || len(verr.Fields["page"]) != 1 {
		t.Fatalf("expected page violation, got %v", err)
	}
}

func TestProductHandler_Get_Detail(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		getFn: func(ctx context.Context, id string) (*ports.ProductDetail, error) {
			if id != "p-1" {
				t.Fatalf("unexpected id %q", id)
			}
			p := bowl
			return &ports.ProductDetail{
				Product: &p,
				Reviews: []domain.Review{{ID: "r-1", ProductID: "p-1", UserName: "Ada", Rating: 5, Content: "Lovely"}},
				Rating:  domain.RatingSummary{Average: 5, Count: 1},
			}, nil
		},
	}
	h := NewProductHandler(stub)

	rec := serve(t, e, h.Get, httptest.NewRequest(http.MethodGet, "/v1/products/p-1", nil), nil, "id", "p-1")

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "p-1" || resp["price"] != 45.0 {
		t.Fatalf("unexpected product: %+v", resp)
	}
	reviews, _ := resp["reviews"].([]any)
	if len(reviews) != 1 {
		t.Fatalf("expected one review, got %+v", resp["reviews"])
	}
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		getFn: func(ctx context.Context, id string) (*ports.ProductDetail, error) {
			return nil, domain.ErrNotFound
		},
	}
	h := NewProductHandler(stub)

	_, err := try(e, h.Get, httptest.NewRequest(http.MethodGet, "/v1/products/nope", nil), nil, "id", "nope")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestProductHandler_Create_ForwardsRawFieldsAndIdentity(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		createFn: func(ctx context.Context, id *domain.Identity, raw map[string]string) (*domain.Product, error) {
			if id == nil || id.UserID != "u-1" {
				t.Fatalf("identity not forwarded: %+v", id)
			}
			if raw["price"] != "45.00" || raw["category"] != "home decor" || raw["name"] != "Bowl" {
				t.Fatalf("unexpected raw: %+v", raw)
			}
			p := bowl
			return &p, nil
		},
	}
	h := NewProductHandler(stub)

	body := `{"name":"Bowl","description":"Hand-thrown stoneware","image_url":"/img/bowl.jpg","price":"45.00","category":"home decor"}`
	rec := serve(t, e, h.Create, httptest.NewRequest(http.MethodPost, "/v1/products", strings.NewReader(body)), artisan)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestProductHandler_Create_NumericPrice(t *testing.T) {
	e := newEcho()
	var got string
	stub := &stubProductService{
		createFn: func(ctx context.Context, id *domain.Identity, raw map[string]string) (*domain.Product, error) {
			got = raw["price"]
			p := bowl
			return &p, nil
		},
	}
	h := NewProductHandler(stub)

	body := `{"name":"Bowl","price":12.5,"category":"art","image_url":"/a.png"}`
	serve(t, e, h.Create, httptest.NewRequest(http.MethodPost, "/v1/products", strings.NewReader(body)), artisan)
	if got != "12.5" {
		t.Fatalf("expected numeric price text, got %q", got)
	}
}

func TestProductHandler_Create_AnonymousReachesService(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		createFn: func(ctx context.Context, id *domain.Identity, raw map[string]string) (*domain.Product, error) {
			if id != nil {
				t.Fatalf("expected anonymous caller")
			}
			return nil, domain.ErrUnauthenticated
		},
	}
	h := NewProductHandler(stub)

	_, err := try(e, h.Create, httptest.NewRequest(http.MethodPost, "/v1/products", strings.NewReader(`{}`)), nil)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestProductHandler_Update_Forbidden(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		updateFn: func(ctx context.Context, id *domain.Identity, productID string, raw map[string]string) (*domain.Product, error) {
			if productID != "p-9" {
				t.Fatalf("unexpected product id %q", productID)
			}
			return nil, domain.ErrForbidden
		},
	}
	h := NewProductHandler(stub)

	req := httptest.NewRequest(http.MethodPut, "/v1/products/p-9", strings.NewReader(`{"name":"X"}`))
	_, err := try(e, h.Update, req, artisan, "id", "p-9")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestProductHandler_Delete(t *testing.T) {
	e := newEcho()
	deleted := ""
	stub := &stubProductService{
		deleteFn: func(ctx context.Context, id *domain.Identity, productID string) error {
			deleted = productID
			return nil
		},
	}
	h := NewProductHandler(stub)

	rec := serve(t, e, h.Delete, httptest.NewRequest(http.MethodDelete, "/v1/products/p-1", nil), artisan, "id", "p-1")
	if rec.Code != http.StatusNoContent || deleted != "p-1" {
		t.Fatalf("expected 204 for p-1, got %d (%q)", rec.Code, deleted)
	}
}

func TestProductHandler_Mine(t *testing.T) {
	e := newEcho()
	stub := &stubProductService{
		mineFn: func(ctx context.Context, id *domain.Identity, page int) (*ports.Page[domain.Product], error) {
			if id.UserID != "u-1" || page != 3 {
				t.Fatalf("unexpected args: %+v %d", id, page)
			}
			return &ports.Page[domain.Product]{Items: []domain.Product{bowl}, Total: 1, Page: 3, PageSize: 6, TotalPages: 1}, nil
		},
	}
	h := NewProductHandler(stub)

	rec := serve(t, e, h.Mine, httptest.NewRequest(http.MethodGet, "/v1/dashboard/products?page=3", nil), artisan)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

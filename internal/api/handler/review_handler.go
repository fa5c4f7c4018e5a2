package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

// ReviewHandler handles review listing and posting.
type ReviewHandler struct {
	service ports.ReviewService
}

// NewReviewHandler creates a ReviewHandler backed by the given service.
func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// List handles GET /v1/reviews, newest first.
//
// @Summary      Search reviews
// @Tags         reviews
// @Produce      json
// @Param        q           query     string  false  "Matches content or author name"
// @Param        product_id  query     string  false  "Only reviews of this product"
// @Param        user_id     query     string  false  "Only reviews by this user"
// @Param        page        query     int     false  "Page number (1-based)"
// @Success      200         {object}  listReviewsResponse
// @Failure      400         {object}  errorResponse
// @Router       /v1/reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	var q reviewListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), ports.ReviewQuery{
		Query:     q.Query,
		ProductID: q.ProductID,
		UserID:    q.UserID,
		Page:      q.Page,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewListResponse(page))
}

// ListForProduct handles GET /v1/products/:id/reviews.
//
// @Summary      List a product's reviews
// @Tags         reviews
// @Produce      json
// @Param        id    path      string  true   "Product id"
// @Param        page  query     int     false  "Page number (1-based)"
// @Success      200   {object}  listReviewsResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/products/{id}/reviews [get]
func (h *ReviewHandler) ListForProduct(c echo.Context) error {
	var q pageQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), ports.ReviewQuery{
		ProductID: c.Param("id"),
		Page:      q.Page,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toReviewListResponse(page))
}

// Create handles POST /v1/products/:id/reviews.
//
// @Summary      Review a product
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Product id"
// @Param        body  body      reviewRequest  true  "Review"
// @Success      201   {object}  reviewResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/products/{id}/reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	var req reviewRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	review, err := h.service.Create(c.Request().Context(), ctxIdentity(c), c.Param("id"), req.raw())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReviewResponse(*review))
}

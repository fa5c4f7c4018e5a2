package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

// SellerHandler serves the artisan directory.
type SellerHandler struct {
	service ports.SellerService
}

func NewSellerHandler(service ports.SellerService) *SellerHandler {
	return &SellerHandler{service: service}
}

// List handles GET /v1/sellers.
//
// @Summary      Browse artisans
// @Tags         sellers
// @Produce      json
// @Param        q     query     string  false  "Matches name or email"
// @Param        page  query     int     false  "Page number (1-based)"
// @Success      200   {object}  listSellersResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/sellers [get]
func (h *SellerHandler) List(c echo.Context) error {
	var q sellerListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), q.Query, q.Page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSellerListResponse(page))
}

// Get handles GET /v1/sellers/:id.
//
// @Summary      Get an artisan profile
// @Tags         sellers
// @Produce      json
// @Param        id   path      string  true  "Seller id"
// @Success      200  {object}  sellerProfileResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/sellers/{id} [get]
func (h *SellerHandler) Get(c echo.Context) error {
	profile, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSellerProfileResponse(profile))
}

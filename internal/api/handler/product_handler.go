package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

// ProductHandler handles HTTP requests for product operations.
type ProductHandler struct {
	service ports.ProductService
}

func NewProductHandler(service ports.ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /v1/products.
//
// @Summary      Browse products
// @Description  Filters combine with AND. Prices are in dollars; category "all" matches every category.
// @Tags         products
// @Produce      json
// @Param        q          query     string  false  "Matches name or description"
// @Param        category   query     string  false  "jewelry, art, home decor, clothing, other or all"
// @Param        min_price  query     string  false  "Lower price bound in dollars"
// @Param        max_price  query     string  false  "Upper price bound in dollars"
// @Param        page       query     int     false  "Page number (1-based)"
// @Success      200        {object}  listProductsResponse
// @Failure      400        {object}  errorResponse
// @Failure      500        {object}  errorResponse
// @Router       /v1/products [get]
func (h *ProductHandler) List(c echo.Context) error {
	var q productListQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), ports.ProductQuery{
		Query:    q.Query,
		Category: q.Category,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Page:     q.Page,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductListResponse(page))
}

// Get handles GET /v1/products/:id.
//
// @Summary      Get a product with its reviews
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product id"
// @Success      200  {object}  productDetailResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /v1/products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductDetailResponse(detail))
}

// BySeller handles GET /v1/sellers/:id/products.
//
// @Summary      List an artisan's products
// @Tags         sellers
// @Produce      json
// @Param        id    path      string  true   "Seller id"
// @Param        page  query     int     false  "Page number (1-based)"
// @Success      200   {object}  listProductsResponse
// @Failure      400   {object}  errorResponse
// @Router       /v1/sellers/{id}/products [get]
func (h *ProductHandler) BySeller(c echo.Context) error {
	var q pageQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	page, err := h.service.ListBySeller(c.Request().Context(), c.Param("id"), q.Page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductListResponse(page))
}

// Mine handles GET /v1/dashboard/products.
//
// @Summary      List the signed-in artisan's products
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        page  query     int     false  "Page number (1-based)"
// @Success      200   {object}  listProductsResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/dashboard/products [get]
func (h *ProductHandler) Mine(c echo.Context) error {
	var q pageQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	page, err := h.service.ListMine(c.Request().Context(), ctxIdentity(c), q.Page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductListResponse(page))
}

// Create handles POST /v1/products.
//
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      productRequest  true  "Product"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /v1/products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	product, err := h.service.Create(c.Request().Context(), ctxIdentity(c), req.raw())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toProductResponse(*product))
}

// Update handles PUT /v1/products/:id. All five fields are replaced.
//
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Product id"
// @Param        body  body      productRequest  true  "Product"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	var req productRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	product, err := h.service.Update(c.Request().Context(), ctxIdentity(c), c.Param("id"), req.raw())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toProductResponse(*product))
}

// Delete handles DELETE /v1/products/:id.
//
// @Summary      Delete a product
// @Tags         products
// @Security     BearerAuth
// @Param        id   path  string  true  "Product id"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), ctxIdentity(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

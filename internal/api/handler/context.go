package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/handcrafted-haven/marketplace/internal/api/middleware"
	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

// ctxIdentity returns the caller's identity, nil when anonymous. Services
// decide what an anonymous caller may do.
func ctxIdentity(c echo.Context) *domain.Identity {
	return middleware.IdentityFrom(c)
}

// bindQuery binds and validates a query envelope. Malformed values (a
// non-numeric page) are a 400 before any service call.
func bindQuery(c echo.Context, q any) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	return c.Validate(q)
}

// bindBody binds a JSON request body.
func bindBody(c echo.Context, req any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return nil
}

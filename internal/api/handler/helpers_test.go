package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/handcrafted-haven/marketplace/internal/api/middleware"
	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

const testToken = "test-session"

type fixedResolver struct {
	id *domain.Identity
}

func (r fixedResolver) Resolve(context.Context, string) *domain.Identity { return r.id }

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// serve runs h behind the identity middleware with id as the caller (nil for
// anonymous) and fails the test on a returned error.
func serve(t *testing.T, e *echo.Echo, h echo.HandlerFunc, req *http.Request, id *domain.Identity, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	rec, err := try(e, h, req, id, params...)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return rec
}

// try is serve without the error check.
func try(e *echo.Echo, h echo.HandlerFunc, req *http.Request, id *domain.Identity, params ...string) (*httptest.ResponseRecorder, error) {
	if id != nil {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+testToken)
	}
	if req.Header.Get(echo.HeaderContentType) == "" && req.Body != http.NoBody {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) > 0 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	err := middleware.ReadIdentity(fixedResolver{id: id})(h)(c)
	return rec, err
}

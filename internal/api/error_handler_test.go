package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	verr := domain.NewValidationError()
	verr.Add("price", "must be greater than 0")

	tests := []struct {
		name string
		err  error
		want int
		msg  string
	}{
		{"validation", verr, http.StatusBadRequest, "validation failed"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "invalid credentials"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
		{"wrapped not found", fmt.Errorf("find product: %w", domain.ErrNotFound), http.StatusNotFound, "not found"},
		{"duplicate email", domain.ErrUserExists, http.StatusConflict, "user already exists"},
		{"echo error", echo.NewHTTPError(http.StatusBadRequest, "invalid payload"), http.StatusBadRequest, "invalid payload"},
		{"storage", &domain.StorageError{Op: "insert product", Err: errors.New("connection refused")}, http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			NewHTTPErrorHandler(zerolog.Nop())(tt.err, c)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Error != tt.msg {
				t.Fatalf("expected %q, got %q", tt.msg, resp.Error)
			}
		})
	}
}

func TestHTTPErrorHandler_ValidationCarriesFields(t *testing.T) {
	verr := domain.NewValidationError()
	verr.Add("rating", "out of range")
	verr.Add("content", "is required")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(fmt.Errorf("create review: %w", verr), c)

	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Fields) != 2 || resp.Fields["rating"][0] != "out of range" {
		t.Fatalf("unexpected fields: %+v", resp.Fields)
	}
}

func TestHTTPErrorHandler_StorageCauseNotLeaked(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(&domain.StorageError{Op: "list products", Err: errors.New("password authentication failed for user admin")}, c)

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 1 || resp["error"] != "internal server error" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}

// Package listing holds the collection-independent parts of filtered, paginated
// reads: page normalization, offset and page-count math, and the conversion of
// display-unit price bounds into stored minor units.
package listing

import (
	"errors"
	"math"
	"strings"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
)

// Page sizes used when configuration leaves one unset.
const (
	DefaultProductPageSize = 6
	DefaultSellerPageSize  = 10
	DefaultReviewPageSize  = 10
	DefaultStoryPageSize   = 10
)

// Request returns a PageRequest with page clamped to [1, math.MaxInt/size], so
// Offset never overflows. A non-positive size falls back to fallback.
func Request(page, size, fallback int) ports.PageRequest {
	if size < 1 {
		size = fallback
	}
	if size < 1 {
		size = 1
	}
	if page < 1 {
		page = 1
	}
	if last := math.MaxInt / size; page > last {
		page = last
	}
	return ports.PageRequest{Page: page, Size: size}
}

// Offset is the number of rows skipped before the requested page.
func Offset(p ports.PageRequest) int {
	return (p.Page - 1) * p.Size
}

// TotalPages is ceil(total/size). Zero matches give zero pages.
func TotalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// NewPage assembles a Page. A nil items slice is replaced with an empty one so
// out-of-range pages render as [] rather than null.
func NewPage[T any](items []T, total int64, p ports.PageRequest) *ports.Page[T] {
	if items == nil {
		items = []T{}
	}
	return &ports.Page[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.Size,
		TotalPages: TotalPages(total, p.Size),
	}
}

// ProductFilter converts raw listing parameters into a ProductFilter. Empty values
// and the "all" category are no-ops. Price bounds are converted from dollars to cents.
func ProductFilter(q ports.ProductQuery) (ports.ProductFilter, error) {
	verr := domain.NewValidationError()
	f := ports.ProductFilter{Query: strings.TrimSpace(q.Query)}

	if c := strings.TrimSpace(q.Category); c != "" {
		cat, ok := domain.ParseCategory(c)
		switch {
		case !ok:
			verr.Add("category", "unknown category")
		case cat != domain.CategoryAll:
			f.Category = cat
		}
	}

	f.MinPrice = priceBound(q.MinPrice, "min_price", verr)
	f.MaxPrice = priceBound(q.MaxPrice, "max_price", verr)

	if !verr.Empty() {
		return ports.ProductFilter{}, verr
	}
	return f, nil
}

func priceBound(raw, field string, verr *domain.ValidationError) *domain.Cents {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	c, err := domain.ParseDollars(raw)
	switch {
	case errors.Is(err, domain.ErrAmountTooLarge):
		verr.Add(field, "is too large")
		return nil
	case err != nil:
		verr.Add(field, "must be a number")
		return nil
	}
	if c < 0 {
		verr.Add(field, "must not be negative")
		return nil
	}
	return &c
}

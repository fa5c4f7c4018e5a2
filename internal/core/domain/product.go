package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Category is a product category. CategoryAll is only meaningful as a filter.
type Category string

const (
	CategoryJewelry   Category = "jewelry"
	CategoryArt       Category = "art"
	CategoryHomeDecor Category = "home decor"
	CategoryClothing  Category = "clothing"
	CategoryOther     Category = "other"
	CategoryAll       Category = "all"
)

// Categories lists the categories a product may be stored under.
var Categories = []Category{CategoryJewelry, CategoryArt, CategoryHomeDecor, CategoryClothing, CategoryOther}

// ParseCategory accepts any storable category plus the "all" sentinel.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if c == CategoryAll {
		return c, true
	}
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// MaxDollars bounds any parsed amount; larger values cannot be held in Cents.
const MaxDollars = 1e15

// ErrAmountTooLarge is returned by ParseDollars for amounts beyond MaxDollars.
var ErrAmountTooLarge = errors.New("amount too large")

// Cents is an amount in minor currency units. Prices are only ever stored in Cents.
type Cents int64

// ParseDollars converts a display-unit decimal string ("12.34", "45", "$7.5") to Cents.
func ParseDollars(s string) (Cents, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("amount %q is not a number", s)
	}
	if math.Abs(f) > MaxDollars {
		return 0, fmt.Errorf("amount %q: %w", s, ErrAmountTooLarge)
	}
	return Cents(math.Round(f * 100)), nil
}

// Dollars returns the display-unit value.
func (c Cents) Dollars() float64 { return float64(c) / 100 }

// String formats the amount in display units with two decimals.
func (c Cents) String() string {
	sign := ""
	v := int64(c)
	if v < 0 {
		sign, v = "-", -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// Product is a listing owned by one artisan.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	PriceCents  Cents     `json:"price_cents"`
	Category    Category  `json:"category"`
	SellerID    string    `json:"seller_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductFields is the validated, typed payload for creating or updating a product.
type ProductFields struct {
	Name        string
	Description string
	ImageURL    string
	PriceCents  Cents
	Category    Category
}

// Raw renders the fields back into the raw form accepted by the validator.
func (f ProductFields) Raw() map[string]string {
	return map[string]string{
		"name":        f.Name,
		"description": f.Description,
		"image_url":   f.ImageURL,
		"price":       f.PriceCents.String(),
		"category":    string(f.Category),
	}
}

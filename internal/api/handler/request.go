package handler

import (
	"bytes"
	"encoding/json"
)

// rawValue accepts a JSON string or number and keeps its text. Typed
// conversion and its error messages belong to the core validator.
type rawValue string

func (v *rawValue) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*v = rawValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*v = rawValue(n.String())
	return nil
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type productRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Price       rawValue `json:"price" swaggertype:"string" example:"45.00"`
	Category    string   `json:"category"`
}

func (r productRequest) raw() map[string]string {
	return map[string]string{
		"name":        r.Name,
		"description": r.Description,
		"image_url":   r.ImageURL,
		"price":       string(r.Price),
		"category":    r.Category,
	}
}

type storyRequest struct {
	Title string `json:"title"`
	Story string `json:"story"`
}

func (r storyRequest) raw() map[string]string {
	return map[string]string{"title": r.Title, "story": r.Story}
}

type reviewRequest struct {
	Content string   `json:"content"`
	Rating  rawValue `json:"rating" swaggertype:"integer" example:"5"`
}

func (r reviewRequest) raw() map[string]string {
	return map[string]string{"content": r.Content, "rating": string(r.Rating)}
}

// --- Query envelopes ---

type pageQuery struct {
	Page int `query:"page" validate:"omitempty,min=1"`
}

type productListQuery struct {
	Query    string `query:"q"         validate:"max=200"`
	Category string `query:"category"`
	MinPrice string `query:"min_price"`
	MaxPrice string `query:"max_price"`
	Page     int    `query:"page"      validate:"omitempty,min=1"`
}

type reviewListQuery struct {
	Query     string `query:"q"          validate:"max=200"`
	ProductID string `query:"product_id"`
	UserID    string `query:"user_id"`
	Page      int    `query:"page"       validate:"omitempty,min=1"`
}

type sellerListQuery struct {
	Query string `query:"q"    validate:"max=200"`
	Page  int    `query:"page" validate:"omitempty,min=1"`
}

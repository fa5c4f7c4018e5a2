// Package validation validates and normalizes create/update payloads. It is pure:
// no storage access, and every failing field is reported, not just the first.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
)

var imageRefPattern = regexp.MustCompile(`^/|^https?://`)

// Validator wraps go-playground/validator with the marketplace's field rules.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the custom "imageref" and "category" rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("imageref", func(fl validator.FieldLevel) bool {
		return imageRefPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		c, ok := domain.ParseCategory(fl.Field().String())
		return ok && c != domain.CategoryAll
	})
	return &Validator{v: v}
}

type productInput struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description" validate:"required"`
	ImageURL    string `json:"image_url"   validate:"required,imageref"`
	PriceCents  int64  `json:"price"       validate:"gt=0"`
	Category    string `json:"category"    validate:"required,category"`
}

type storyInput struct {
	Title string `json:"title" validate:"required,max=100"`
	Story string `json:"story" validate:"required,max=1000"`
}

type reviewInput struct {
	Content string `json:"content" validate:"required"`
	Rating  int    `json:"rating"  validate:"min=1,max=5"`
}

// Product validates a product payload. The same rules apply to create and update;
// price must be strictly positive in both.
func (v *Validator) Product(raw map[string]string) (domain.ProductFields, error) {
	verr := domain.NewValidationError()
	in := productInput{
		Name:        strings.TrimSpace(raw["name"]),
		Description: strings.TrimSpace(raw["description"]),
		ImageURL:    strings.TrimSpace(raw["image_url"]),
		Category:    strings.ToLower(strings.TrimSpace(raw["category"])),
	}

	price := strings.TrimSpace(raw["price"])
	switch cents, err := domain.ParseDollars(price); {
	case price == "":
		verr.Add("price", "is required")
	case errors.Is(err, domain.ErrAmountTooLarge):
		verr.Add("price", "is too large")
	case err != nil:
		verr.Add("price", "must be a number")
	default:
		in.PriceCents = int64(cents)
	}

	v.collect(in, verr)
	if !verr.Empty() {
		return domain.ProductFields{}, verr
	}
	return domain.ProductFields{
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		PriceCents:  domain.Cents(in.PriceCents),
		Category:    domain.Category(in.Category),
	}, nil
}

// Story validates a seller story payload.
func (v *Validator) Story(raw map[string]string) (domain.StoryFields, error) {
	verr := domain.NewValidationError()
	in := storyInput{
		Title: strings.TrimSpace(raw["title"]),
		Story: strings.TrimSpace(raw["story"]),
	}
	v.collect(in, verr)
	if !verr.Empty() {
		return domain.StoryFields{}, verr
	}
	return domain.StoryFields{Title: in.Title, Story: in.Story}, nil
}

// Review validates a review payload.
func (v *Validator) Review(raw map[string]string) (domain.ReviewFields, error) {
	verr := domain.NewValidationError()
	in := reviewInput{Content: strings.TrimSpace(raw["content"])}

	rating := strings.TrimSpace(raw["rating"])
	switch n, err := strconv.Atoi(rating); {
	case rating == "":
		verr.Add("rating", "is required")
	case err != nil:
		verr.Add("rating", "must be a whole number")
	default:
		in.Rating = n
	}

	v.collect(in, verr)
	if !verr.Empty() {
		return domain.ReviewFields{}, verr
	}
	return domain.ReviewFields{Content: in.Content, Rating: in.Rating}, nil
}

// Validate dispatches on kind and returns the typed fields for that resource.
func (v *Validator) Validate(kind domain.ResourceKind, raw map[string]string) (any, error) {
	switch kind {
	case domain.ResourceProduct:
		return v.Product(raw)
	case domain.ResourceStory:
		return v.Story(raw)
	case domain.ResourceReview:
		return v.Review(raw)
	}
	return nil, fmt.Errorf("validate: unknown resource kind %q", kind)
}

// collect runs the struct rules and appends messages for fields that have not
// already failed coercion.
func (v *Validator) collect(in any, verr *domain.ValidationError) {
	coerced := make(map[string]bool, len(verr.Fields))
	for f := range verr.Fields {
		coerced[f] = true
	}

	err := v.v.Struct(in)
	if err == nil {
		return
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		verr.Add("_", err.Error())
		return
	}
	for _, fe := range ve {
		if coerced[fe.Field()] {
			continue
		}
		verr.Add(fe.Field(), message(fe))
	}
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "imageref":
		return "must be a relative path like /products/item.jpg or a full http(s) URL"
	case "category":
		return "must be one of: jewelry, art, home decor, clothing, other"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "min", "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "out of range"
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}

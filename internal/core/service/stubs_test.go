package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/handcrafted-haven/marketplace/internal/core/domain"
	"github.com/handcrafted-haven/marketplace/internal/core/listing"
	"github.com/handcrafted-haven/marketplace/internal/core/ports"
	"github.com/handcrafted-haven/marketplace/internal/core/validation"
)

// ---------------------------------------------------------------------------
// In-memory store shared by the stub repositories
// ---------------------------------------------------------------------------

type memStore struct {
	users    map[string]*domain.User
	products map[string]*domain.Product
	stories  map[string]*domain.SellerStory
	reviews  []*domain.Review
	seq      time.Time
	failWith error // if set, every repository call returns it
	inserts  int
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*domain.User),
		products: make(map[string]*domain.Product),
		stories:  make(map[string]*domain.SellerStory),
		seq:      time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.seq = m.seq.Add(time.Minute)
	return m.seq
}

func (m *memStore) addUser(name string, role domain.Role) *domain.User {
	u := &domain.User{
		ID:    uuid.NewString(),
		Name:  name,
		Email: strings.ToLower(name) + "@example.com",
		Role:  role,
	}
	m.users[u.ID] = u
	return u
}

func (m *memStore) addProduct(seller *domain.User, name string, cents domain.Cents) *domain.Product {
	p := &domain.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: name + " description",
		ImageURL:    "/products/" + strings.ToLower(name) + ".jpg",
		PriceCents:  cents,
		Category:    domain.CategoryOther,
		SellerID:    seller.ID,
		CreatedAt:   m.tick(),
	}
	m.products[p.ID] = p
	return p
}

func (m *memStore) addStory(owner *domain.User, title string) *domain.SellerStory {
	s := &domain.SellerStory{ID: uuid.NewString(), UserID: owner.ID, Title: title, Story: "once", CreatedAt: m.tick()}
	m.stories[s.ID] = s
	return s
}

func (m *memStore) OwnerOf(_ context.Context, kind domain.ResourceKind, id string) (string, error) {
	if m.failWith != nil {
		return "", m.failWith
	}
	switch kind {
	case domain.ResourceProduct:
		if p, ok := m.products[id]; ok {
			return p.SellerID, nil
		}
	case domain.ResourceStory:
		if s, ok := m.stories[id]; ok {
			return s.UserID, nil
		}
	case domain.ResourceReview:
		for _, r := range m.reviews {
			if r.ID == id {
				return r.UserID, nil
			}
		}
	}
	return "", domain.ErrNotFound
}

func paginate[T any](items []T, p ports.PageRequest) []T {
	off := listing.Offset(p)
	if off >= len(items) {
		return []T{}
	}
	end := off + p.Size
	if end > len(items) {
		end = len(items)
	}
	return items[off:end]
}

func contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

type stubProducts struct{ *memStore }

func (r stubProducts) List(_ context.Context, f ports.ProductFilter, p ports.PageRequest) ([]domain.Product, int64, error) {
	if r.failWith != nil {
		return nil, 0, r.failWith
	}
	var matched []domain.Product
	for _, pr := range r.products {
		if f.Query != "" && !contains(pr.Name, f.Query) && !contains(pr.Description, f.Query) {
			continue
		}
		if f.Category != "" && pr.Category != f.Category {
			continue
		}
		if f.MinPrice != nil && pr.PriceCents < *f.MinPrice {
			continue
		}
		if f.MaxPrice != nil && pr.PriceCents > *f.MaxPrice {
			continue
		}
		if f.SellerID != "" && pr.SellerID != f.SellerID {
			continue
		}
		matched = append(matched, *pr)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return paginate(matched, p), int64(len(matched)), nil
}

func (r stubProducts) FindByID(_ context.Context, id string) (*domain.Product, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (r stubProducts) CountBySeller(_ context.Context, sellerID string) (int64, error) {
	var n int64
	for _, p := range r.products {
		if p.SellerID == sellerID {
			n++
		}
	}
	return n, nil
}

// Featured is deterministic here: the first product by name.
func (r stubProducts) Featured(_ context.Context) (*domain.Product, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	var pick *domain.Product
	for _, p := range r.products {
		if pick == nil || p.Name < pick.Name {
			pick = p
		}
	}
	if pick == nil {
		return nil, domain.ErrNotFound
	}
	clone := *pick
	return &clone, nil
}

func (r stubProducts) Insert(_ context.Context, id, sellerID string, f domain.ProductFields) (*domain.Product, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	r.memStore.inserts++
	p := &domain.Product{
		ID: id, Name: f.Name, Description: f.Description, ImageURL: f.ImageURL,
		PriceCents: f.PriceCents, Category: f.Category, SellerID: sellerID, CreatedAt: r.tick(),
	}
	r.products[id] = p
	clone := *p
	return &clone, nil
}

func (r stubProducts) UpdateOwned(_ context.Context, id, ownerID string, f domain.ProductFields) (*domain.Product, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	p, ok := r.products[id]
	if !ok || p.SellerID != ownerID {
		return nil, domain.ErrNotFound
	}
	p.Name, p.Description, p.ImageURL, p.PriceCents, p.Category = f.Name, f.Description, f.ImageURL, f.PriceCents, f.Category
	p.UpdatedAt = r.tick()
	clone := *p
	return &clone, nil
}

func (r stubProducts) DeleteOwned(_ context.Context, id, ownerID string) error {
	if r.failWith != nil {
		return r.failWith
	}
	p, ok := r.products[id]
	if !ok || p.SellerID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

// ---------------------------------------------------------------------------
// Stories
// ---------------------------------------------------------------------------

type stubStories struct{ *memStore }

func (r stubStories) sorted(sellerID string) []domain.SellerStory {
	var out []domain.SellerStory
	for _, s := range r.stories {
		if sellerID == "" || s.UserID == sellerID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r stubStories) List(_ context.Context, f ports.StoryFilter, p ports.PageRequest) ([]domain.SellerStory, int64, error) {
	if r.failWith != nil {
		return nil, 0, r.failWith
	}
	all := r.sorted(f.SellerID)
	return paginate(all, p), int64(len(all)), nil
}

func (r stubStories) Latest(_ context.Context, sellerID string) (*domain.SellerStory, error) {
	all := r.sorted(sellerID)
	if len(all) == 0 {
		return nil, domain.ErrNotFound
	}
	return &all[0], nil
}

func (r stubStories) CountBySeller(_ context.Context, sellerID string) (int64, error) {
	return int64(len(r.sorted(sellerID))), nil
}

func (r stubStories) Insert(_ context.Context, id, userID string, f domain.StoryFields) (*domain.SellerStory, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	s := &domain.SellerStory{ID: id, UserID: userID, Title: f.Title, Story: f.Story, CreatedAt: r.tick()}
	r.stories[id] = s
	clone := *s
	return &clone, nil
}

func (r stubStories) UpdateOwned(_ context.Context, id, ownerID string, f domain.StoryFields) (*domain.SellerStory, error) {
	s, ok := r.stories[id]
	if !ok || s.UserID != ownerID {
		return nil, domain.ErrNotFound
	}
	s.Title, s.Story, s.UpdatedAt = f.Title, f.Story, r.tick()
	clone := *s
	return &clone, nil
}

func (r stubStories) DeleteOwned(_ context.Context, id, ownerID string) error {
	s, ok := r.stories[id]
	if !ok || s.UserID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.stories, id)
	return nil
}

// ---------------------------------------------------------------------------
// Reviews
// ---------------------------------------------------------------------------

type stubReviews struct{ *memStore }

func (r stubReviews) List(_ context.Context, f ports.ReviewFilter, p ports.PageRequest) ([]domain.Review, int64, error) {
	if r.failWith != nil {
		return nil, 0, r.failWith
	}
	var matched []domain.Review
	for i := len(r.reviews) - 1; i >= 0; i-- {
		rv := r.reviews[i]
		if f.ProductID != "" && rv.ProductID != f.ProductID {
			continue
		}
		if f.UserID != "" && rv.UserID != f.UserID {
			continue
		}
		if f.Query != "" && !contains(rv.Content, f.Query) && !contains(rv.UserName, f.Query) {
			continue
		}
		matched = append(matched, *rv)
	}
	return paginate(matched, p), int64(len(matched)), nil
}

func (r stubReviews) Summary(_ context.Context, productID string) (domain.RatingSummary, error) {
	var sum, n int
	for _, rv := range r.reviews {
		if rv.ProductID == productID {
			sum += rv.Rating
			n++
		}
	}
	if n == 0 {
		return domain.RatingSummary{}, nil
	}
	return domain.RatingSummary{Average: float64(sum) / float64(n), Count: n}, nil
}

func (r stubReviews) CountByUser(_ context.Context, userID string) (int64, error) {
	if r.failWith != nil {
		return 0, r.failWith
	}
	var n int64
	for _, rv := range r.reviews {
		if rv.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r stubReviews) FindByID(_ context.Context, id string) (*domain.Review, error) {
	for _, rv := range r.reviews {
		if rv.ID == id {
			clone := *rv
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r stubReviews) Insert(_ context.Context, id, productID, userID string, f domain.ReviewFields) (*domain.Review, error) {
	if r.failWith != nil {
		return nil, r.failWith
	}
	if _, ok := r.products[productID]; !ok {
		return nil, domain.ErrNotFound
	}
	r.memStore.inserts++
	rv := &domain.Review{ID: id, ProductID: productID, UserID: userID, Content: f.Content, Rating: f.Rating, CreatedAt: r.tick()}
	if u, ok := r.users[userID]; ok {
		rv.UserName = u.Name
	}
	r.memStore.reviews = append(r.memStore.reviews, rv)
	clone := *rv
	return &clone, nil
}

// ---------------------------------------------------------------------------
// Sellers
// ---------------------------------------------------------------------------

type stubSellers struct{ *memStore }

func (r stubSellers) List(_ context.Context, f ports.SellerFilter, p ports.PageRequest) ([]domain.Seller, int64, error) {
	var matched []domain.Seller
	for _, u := range r.users {
		if !u.Role.IsArtisan() {
			continue
		}
		if f.Query != "" && !contains(u.Name, f.Query) && !contains(u.Email, f.Query) {
			continue
		}
		matched = append(matched, domain.Seller{ID: u.ID, Name: u.Name, Email: u.Email})
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })
	return paginate(matched, p), int64(len(matched)), nil
}

func (r stubSellers) FindByID(_ context.Context, id string) (*domain.Seller, error) {
	u, ok := r.users[id]
	if !ok || !u.Role.IsArtisan() {
		return nil, domain.ErrNotFound
	}
	return &domain.Seller{ID: u.ID, Name: u.Name, Email: u.Email}, nil
}

// ---------------------------------------------------------------------------
// Audit publisher
// ---------------------------------------------------------------------------

type recordingPublisher struct {
	events []domain.MutationEvent
}

func (p *recordingPublisher) Publish(e domain.MutationEvent) { p.events = append(p.events, e) }

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func newPipeline(store *memStore, pub *recordingPublisher) *Pipeline {
	return &Pipeline{
		Authorizer: NewAuthorizer(store),
		Validator:  validation.New(),
		Executor:   NewExecutor(store, pub, discardLogger),
	}
}

func identityOf(u *domain.User) *domain.Identity {
	return &domain.Identity{UserID: u.ID, Role: u.Role, SessionID: uuid.NewString()}
}

func productRaw(name, price, category string) map[string]string {
	return map[string]string{
		"name":        name,
		"description": "Hand made",
		"image_url":   "/products/item.jpg",
		"price":       price,
		"category":    category,
	}
}

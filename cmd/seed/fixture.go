package main

import (
	_ "embed"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixture []byte

type fixture struct {
	Users    []fixtureUser    `yaml:"users"`
	Products []fixtureProduct `yaml:"products"`
	Stories  []fixtureStory   `yaml:"stories"`
	Reviews  []fixtureReview  `yaml:"reviews"`
}

type fixtureUser struct {
	Key      string `yaml:"key"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type fixtureProduct struct {
	Key         string `yaml:"key"`
	Seller      string `yaml:"seller"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
	Price       string `yaml:"price"`
	Category    string `yaml:"category"`
}

func (p fixtureProduct) raw() map[string]string {
	return map[string]string{
		"name":        p.Name,
		"description": p.Description,
		"image_url":   p.ImageURL,
		"price":       p.Price,
		"category":    p.Category,
	}
}

type fixtureStory struct {
	Seller string `yaml:"seller"`
	Title  string `yaml:"title"`
	Story  string `yaml:"story"`
}

type fixtureReview struct {
	Author  string `yaml:"author"`
	Product string `yaml:"product"`
	Rating  int    `yaml:"rating"`
	Content string `yaml:"content"`
}

func (r fixtureReview) raw() map[string]string {
	return map[string]string{"content": r.Content, "rating": strconv.Itoa(r.Rating)}
}

// loadFixture decodes a fixture and checks that every cross reference names
// a declared key. Unknown YAML fields are rejected.
func loadFixture(r io.Reader) (*fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f fixture
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}
	if err := f.check(); err != nil {
		return nil, err
	}
	return &f, nil
}

func (f *fixture) check() error {
	users := make(map[string]string, len(f.Users))
	for _, u := range f.Users {
		if u.Key == "" {
			return fmt.Errorf("user %q has no key", u.Email)
		}
		if _, dup := users[u.Key]; dup {
			return fmt.Errorf("duplicate user key %q", u.Key)
		}
		users[u.Key] = u.Role
	}

	products := make(map[string]struct{}, len(f.Products))
	for _, p := range f.Products {
		if users[p.Seller] != "artisan" {
			return fmt.Errorf("product %q: seller %q is not a declared artisan", p.Key, p.Seller)
		}
		if _, dup := products[p.Key]; dup || p.Key == "" {
			return fmt.Errorf("product key %q is empty or duplicated", p.Key)
		}
		products[p.Key] = struct{}{}
	}

	for _, s := range f.Stories {
		if users[s.Seller] != "artisan" {
			return fmt.Errorf("story %q: seller %q is not a declared artisan", s.Title, s.Seller)
		}
	}

	for _, r := range f.Reviews {
		if _, ok := users[r.Author]; !ok {
			return fmt.Errorf("review by unknown user %q", r.Author)
		}
		if _, ok := products[r.Product]; !ok {
			return fmt.Errorf("review of unknown product %q", r.Product)
		}
	}
	return nil
}

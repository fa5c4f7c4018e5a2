package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET": "0123456789abcdef",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || !cfg.IsDevelopment() {
		t.Fatalf("unexpected base config: %+v", cfg)
	}
	if cfg.Paging != (PagingConfig{Products: 6, Sellers: 10, Reviews: 10, Stories: 10}) {
		t.Fatalf("unexpected page sizes: %+v", cfg.Paging)
	}
	if cfg.Session.TTL != 24*time.Hour || cfg.Audit.ReviewDedupWindow != 10*time.Minute {
		t.Fatalf("unexpected durations: %+v %+v", cfg.Session, cfg.Audit)
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"SESSION_SECRET":     "0123456789abcdef",
		"ENV":                "production",
		"PRODUCTS_PAGE_SIZE": "12",
		"SESSION_TTL":        "2h",
		"COOKIE_SECURE":      "true",
		"CORS_ORIGINS":       "https://a.example, https://b.example,",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.IsDevelopment() || cfg.Paging.Products != 12 || cfg.Session.TTL != 2*time.Hour || !cfg.Session.CookieSecure {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	origins := cfg.AllowedOrigins()
	if len(origins) != 2 || origins[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %v", origins)
	}
}

func TestLoadFrom_SecretRequired(t *testing.T) {
	if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error without SESSION_SECRET")
	}
	if _, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{"SESSION_SECRET": "short"})); err == nil {
		t.Fatalf("expected error for a short secret")
	}
}

package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CATALOG_BASE_URL", "https://cms.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Catalog.Timeout != 15*time.Second {
		t.Fatalf("Catalog.Timeout = %v, want 15s", cfg.Catalog.Timeout)
	}
	if cfg.Catalog.RecommendLimit != 4 {
		t.Fatalf("Catalog.RecommendLimit = %d, want 4", cfg.Catalog.RecommendLimit)
	}
	if cfg.Cart.StatePath != "cart.json" {
		t.Fatalf("Cart.StatePath = %q, want cart.json", cfg.Cart.StatePath)
	}
	if cfg.Content.HotReload {
		t.Fatal("Content.HotReload = true, want false by default")
	}
	if cfg.Content.HeroInterval != 4*time.Second {
		t.Fatalf("Content.HeroInterval = %v, want 4s", cfg.Content.HeroInterval)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CATALOG_BASE_URL", "https://cms.example.com")
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_TIMEOUT", "5s")
	t.Setenv("CATALOG_RECOMMEND_LIMIT", "8")
	t.Setenv("CART_STATE_PATH", "/var/lib/storefront/cart.json")
	t.Setenv("CONTENT_HOT_RELOAD", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Catalog.Timeout != 5*time.Second {
		t.Fatalf("Catalog.Timeout = %v, want 5s", cfg.Catalog.Timeout)
	}
	if cfg.Catalog.RecommendLimit != 8 {
		t.Fatalf("Catalog.RecommendLimit = %d, want 8", cfg.Catalog.RecommendLimit)
	}
	if cfg.Cart.StatePath != "/var/lib/storefront/cart.json" {
		t.Fatalf("Cart.StatePath = %q", cfg.Cart.StatePath)
	}
	if !cfg.Content.HotReload {
		t.Fatal("Content.HotReload = false, want true")
	}
}

func TestLoadMissingBaseURL(t *testing.T) {
	t.Setenv("CATALOG_BASE_URL", "")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() error = nil, want validation error")
	}
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Load() error = %T, want *ValidationError", err)
	}
	if len(validation.Fields()) != 1 || validation.Fields()[0] != "CATALOG_BASE_URL" {
		t.Fatalf("Fields() = %v, want [CATALOG_BASE_URL]", validation.Fields())
	}
	if !strings.Contains(validation.Error(), "CATALOG_BASE_URL") {
		t.Fatalf("Error() = %q, want to mention CATALOG_BASE_URL", validation.Error())
	}
}

func TestLoadRelativeBaseURLRejected(t *testing.T) {
	t.Setenv("CATALOG_BASE_URL", "/not/a/url")

	_, err := Load()
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("Load() error = %v, want *ValidationError", err)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("CATALOG_BASE_URL", "https://cms.example.com")
	t.Setenv("CATALOG_TIMEOUT", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Catalog.Timeout != 15*time.Second {
		t.Fatalf("Catalog.Timeout = %v, want default 15s", cfg.Catalog.Timeout)
	}
}

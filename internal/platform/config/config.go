// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort           = "8080"
	defaultReadTimeout    = 15 * time.Second
	defaultWriteTimeout   = 30 * time.Second
	defaultIdleTimeout    = 120 * time.Second
	defaultCatalogTimeout = 15 * time.Second
	defaultCartStatePath  = "cart.json"
	defaultContentPath    = "content.yaml"
	defaultRecommendLimit = 4
	defaultHeroInterval   = 4 * time.Second
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	Catalog CatalogConfig
	Cart    CartConfig
	Content ContentConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// CatalogConfig points at the external CMS owning the product data.
type CatalogConfig struct {
	BaseURL        string
	Timeout        time.Duration
	RecommendLimit int
}

// CartConfig locates the persisted cart blob.
type CartConfig struct {
	StatePath string
}

// ContentConfig locates the home-page content file.
type ContentConfig struct {
	Path         string
	HotReload    bool
	HeroInterval time.Duration
}

// ValidationError is returned when required configuration fields are missing
// or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Load reads configuration from the environment, applying defaults and
// validating required values.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port:         envOrDefault("PORT", defaultPort),
			ReadTimeout:  envDuration("SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: envDuration("SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  envDuration("SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Catalog: CatalogConfig{
			BaseURL:        strings.TrimSpace(os.Getenv("CATALOG_BASE_URL")),
			Timeout:        envDuration("CATALOG_TIMEOUT", defaultCatalogTimeout),
			RecommendLimit: envInt("CATALOG_RECOMMEND_LIMIT", defaultRecommendLimit),
		},
		Cart: CartConfig{
			StatePath: envOrDefault("CART_STATE_PATH", defaultCartStatePath),
		},
		Content: ContentConfig{
			Path:         envOrDefault("CONTENT_PATH", defaultContentPath),
			HotReload:    envBool("CONTENT_HOT_RELOAD", false),
			HeroInterval: envDuration("CONTENT_HERO_INTERVAL", defaultHeroInterval),
		},
	}

	var invalid []string
	if cfg.Catalog.BaseURL == "" {
		invalid = append(invalid, "CATALOG_BASE_URL")
	} else if parsed, err := url.Parse(cfg.Catalog.BaseURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		invalid = append(invalid, "CATALOG_BASE_URL")
	}
	if cfg.Catalog.RecommendLimit < 0 {
		invalid = append(invalid, "CATALOG_RECOMMEND_LIMIT")
	}
	if len(invalid) > 0 {
		return Config{}, &ValidationError{fields: invalid}
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func envInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

// Package handlers exposes the storefront HTTP surface: home content,
// catalog views, and the persistent cart.
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/18Minahil/vanya-storefront/internal/platform/httpx"
)

const (
	defaultAPIPrefix = "/api"
	defaultTimeout   = 60 * time.Second
)

type routerConfig struct {
	basePath    string
	middlewares []func(http.Handler) http.Handler

	home    *HomeHandlers
	catalog *CatalogHandlers
	cart    *CartHandlers
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

// WithMiddlewares appends additional global middleware to the router.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithBasePath overrides the /api route prefix.
func WithBasePath(path string) Option {
	return func(cfg *routerConfig) {
		if path != "" {
			cfg.basePath = path
		}
	}
}

// WithHomeHandlers mounts the home content endpoints.
func WithHomeHandlers(h *HomeHandlers) Option {
	return func(cfg *routerConfig) { cfg.home = h }
}

// WithCatalogHandlers mounts the product listing and detail endpoints.
func WithCatalogHandlers(h *CatalogHandlers) Option {
	return func(cfg *routerConfig) { cfg.catalog = h }
}

// WithCartHandlers mounts the cart endpoints.
func WithCartHandlers(h *CartHandlers) Option {
	return func(cfg *routerConfig) { cfg.cart = h }
}

// NewRouter constructs the chi router with shared middleware and the
// storefront route groups.
func NewRouter(opts ...Option) chi.Router {
	cfg := routerConfig{
		basePath: defaultAPIPrefix,
		middlewares: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Timeout(defaultTimeout),
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()

	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("route_not_found", fmt.Sprintf("no route for %s", req.URL.Path), http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", fmt.Sprintf("method %s not allowed on %s", req.Method, req.URL.Path), http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", health)

	r.Route(cfg.basePath, func(api chi.Router) {
		if cfg.home != nil {
			cfg.home.Routes(api)
		}
		if cfg.catalog != nil {
			cfg.catalog.Routes(api)
		}
		if cfg.cart != nil {
			api.Route("/cart", cfg.cart.Routes)
		}
	})

	return r
}

// Command storefront runs the VANYA storefront gateway: catalog views backed
// by the headless CMS, home content, and the locally persisted cart.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/18Minahil/vanya-storefront/internal/cart"
	"github.com/18Minahil/vanya-storefront/internal/catalog"
	"github.com/18Minahil/vanya-storefront/internal/content"
	"github.com/18Minahil/vanya-storefront/internal/handlers"
	"github.com/18Minahil/vanya-storefront/internal/platform/config"
	"github.com/18Minahil/vanya-storefront/internal/platform/observability"
)

func main() {
	_ = godotenv.Load()

	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()
	logger := baseLogger.Named("storefront")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	catalogClient, err := catalog.NewClient(catalog.ClientDeps{
		BaseURL:    cfg.Catalog.BaseURL,
		HTTPClient: &http.Client{Timeout: cfg.Catalog.Timeout},
		Logger:     logger.Named("catalog"),
	})
	if err != nil {
		logger.Fatal("failed to initialise catalog client", zap.Error(err))
	}

	cartRepo, err := cart.NewFileRepository(cfg.Cart.StatePath)
	if err != nil {
		logger.Fatal("failed to initialise cart repository", zap.Error(err))
	}
	cartStore, err := cart.NewStore(cart.StoreDeps{
		Repository: cartRepo,
		Logger:     logger.Named("cart"),
	})
	if err != nil {
		logger.Fatal("failed to initialise cart store", zap.Error(err))
	}

	contentProvider, err := content.NewProvider(content.ProviderDeps{
		Path:   cfg.Content.Path,
		Logger: logger.Named("content"),
		Watch:  cfg.Content.HotReload,
	})
	if err != nil {
		logger.Fatal("failed to load home content", zap.Error(err))
	}
	defer func() {
		if err := contentProvider.Close(); err != nil {
			logger.Warn("content provider close error", zap.Error(err))
		}
	}()

	homeHandlers := handlers.NewHomeHandlers(handlers.HomeHandlersDeps{
		Content:      contentProvider,
		HeroInterval: cfg.Content.HeroInterval,
		Logger:       logger.Named("home"),
	})
	defer homeHandlers.Close()
	contentProvider.Subscribe(homeHandlers.ContentChanged)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(observability.RequestLoggerMiddleware(logger.Named("http"))),
		handlers.WithHomeHandlers(homeHandlers),
		handlers.WithCatalogHandlers(handlers.NewCatalogHandlers(handlers.CatalogHandlersDeps{
			Catalog:        catalogClient,
			Logger:         logger.Named("catalog"),
			RecommendLimit: cfg.Catalog.RecommendLimit,
		})),
		handlers.WithCartHandlers(handlers.NewCartHandlers(cartStore, catalogClient, logger.Named("cart"))),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	serverLogger := logger.Named("http").With(zap.String("addr", server.Addr))
	go func() {
		serverLogger.Info("vanya storefront listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-shutdown
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

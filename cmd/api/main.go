package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kimhabork/storefront-backend/api/controllers"
	"github.com/kimhabork/storefront-backend/api/routes"
	"github.com/kimhabork/storefront-backend/internal/cartstore"
	"github.com/kimhabork/storefront-backend/internal/catalog"
	"github.com/kimhabork/storefront-backend/internal/contact"
	"github.com/kimhabork/storefront-backend/internal/shopify"
	"github.com/kimhabork/storefront-backend/pkg/config"
	"github.com/kimhabork/storefront-backend/pkg/db"
	"github.com/kimhabork/storefront-backend/pkg/logger"
	"github.com/kimhabork/storefront-backend/pkg/metrics"
	"github.com/kimhabork/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if cfg.FeatureFlags.AutoMigrate {
		if err := dbClient.AutoMigrate(&contact.ContactMessage{}); err != nil {
			logg.Error(context.Background(), "failed to run dev migrations", err)
			os.Exit(1)
		}
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	clientMetrics := metrics.NewStorefrontClientMetrics(registry)

	storefront, err := shopify.NewClient(cfg.Shopify, logg, shopify.WithMetrics(clientMetrics))
	if err != nil {
		logg.Error(context.Background(), "failed to create storefront client", err)
		os.Exit(1)
	}

	catalogService := catalog.NewService(storefront, redisClient, cfg.Cache, logg)

	cartManager := cartstore.NewManager(storefront, cfg.Cart, logg)
	defer cartManager.Close()

	contactService := contact.NewService(contact.NewRepository(dbClient.DB()), logg)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			Catalog:     catalogService,
			Revalidator: catalogService,
			Sessions:    cartManager,
			Contact:     contactService,
			Limiter:     redisClient,
			Readiness: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
			},
			Registry: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

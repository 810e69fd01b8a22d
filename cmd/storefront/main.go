package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ufscompras/api"
	"ufscompras/internal/backend"
	"ufscompras/internal/catalog"
	"ufscompras/internal/config"
	"ufscompras/internal/domain"
	"ufscompras/internal/handler"
	"ufscompras/internal/messaging"
	"ufscompras/internal/middleware"
	"ufscompras/internal/observability"
	"ufscompras/internal/purchase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	observability.InitLogger(cfg.LogLevel, cfg.LogFormat)

	slog.Info("starting storefront",
		slog.String("api_base_url", cfg.APIBaseURL),
		slog.String("environment", cfg.Environment))

	client := backend.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	engine := catalog.NewEngine(client, catalog.NewCategoryCache(client))

	checks := map[string]handler.ReadinessCheck{
		"backend": handler.PingCheck(client),
	}

	if cfg.RedisAddr != "" {
		redisClient, err := config.NewRedisClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			slog.Error("failed to connect to redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer redisClient.Close()

		checks["redis"] = handler.RedisCheck(redisClient)
		slog.Info("connected to redis")
	}

	// Purchases still go through without a broker; they are just not announced.
	var publisher domain.EventPublisher
	if cfg.RabbitMQURL != "" {
		rmqCtx, rmqCancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer rmqCancel()

		rmq, err := messaging.NewRabbitMQWithRetry(rmqCtx, cfg.RabbitMQURL)
		if err != nil {
			slog.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer rmq.Close()

		publisher = rmq
		checks["rabbitmq"] = handler.RabbitMQCheck(rmq)
		slog.Info("connected to rabbitmq")
	}

	loginLimiter := middleware.NewRateLimiter(5, 10)
	defer loginLimiter.Stop()
	purchaseLimiter := middleware.NewRateLimiter(2, 5)
	defer purchaseLimiter.Stop()

	deps := handler.Dependencies{
		Catalog:         handler.CatalogService{Engine: engine},
		Auth:            client,
		Purchaser:       purchase.NewSubmitter(client, publisher),
		Checks:          checks,
		AllowedOrigins:  middleware.ParseOrigins(cfg.AllowedOrigins),
		LoginLimiter:    loginLimiter,
		PurchaseLimiter: purchaseLimiter,
	}
	if cfg.OpenAPIValidation {
		deps.OpenAPI = middleware.DefaultOpenAPIValidatorConfig(api.OpenAPI)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("storefront listening", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	slog.Info("server stopped gracefully")
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"ufscompras/internal/backend"
	"ufscompras/internal/catalog"
	"ufscompras/internal/cli"
	"ufscompras/internal/config"
	"ufscompras/internal/domain"
	"ufscompras/internal/messaging"
	"ufscompras/internal/observability"
	"ufscompras/internal/purchase"
	"ufscompras/internal/session"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		return 1
	}

	// Logs go to stderr so command output can be piped.
	observability.InitLoggerTo(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, closeStorage, err := cli.OpenStorage(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		return 1
	}
	defer closeStorage()

	client := backend.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout)

	store := session.New(storage, client)
	store.Initialize(ctx)

	var (
		broker    *messaging.RabbitMQ
		publisher domain.EventPublisher
	)
	if cfg.RabbitMQURL != "" && needsBroker(args) {
		rmq, err := messaging.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			slog.Warn("rabbitmq unavailable, purchase events disabled", slog.String("error", err.Error()))
		} else {
			defer rmq.Close()
			broker = rmq
			publisher = rmq
		}
	}

	app := &cli.App{
		Out:       os.Stdout,
		Err:       os.Stderr,
		Session:   store,
		Catalog:   catalog.NewEngine(client, catalog.NewCategoryCache(client)),
		Purchases: purchase.NewSubmitter(client, publisher),
		Backend:   client,
		Broker:    broker,
	}

	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		if errors.Is(err, cli.ErrUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func needsBroker(args []string) bool {
	return len(args) > 0 && (args[0] == "buy" || args[0] == "watch-purchases")
}

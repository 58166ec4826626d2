package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ledger/internal/adapter/repo"
	"ledger/internal/events"
	"ledger/internal/infra"
)

// The worker drains donation events from the broker into the audit table.
func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("worker: stopped with error")
		os.Exit(1)
	}
	logger.Info().Msg("worker: stopped")
}

// run owns every resource the worker opens so they are closed before main
// decides the exit status.
func run(ctx context.Context, cfg *infra.Config, logger infra.Logger) error {
	if cfg.AMQPURL == "" {
		return errors.New("AMQP_URL is required")
	}

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		return fmt.Errorf("db connection failed: %w", err)
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
	runner.AcquireTimeout = cfg.DBAcquireTimeout

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		return fmt.Errorf("broker connection failed: %w", err)
	}
	defer client.Close()

	logger.Info().Str("queue", cfg.AMQPQueue).Msg("worker: started")
	return client.ConsumeDonationEvents(ctx, events.AuditHandler(repo.NewAuditRepository(runner)))
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"ledger/internal/adapter/repo"
	"ledger/internal/auth"
	"ledger/internal/db"
	"ledger/internal/events"
	"ledger/internal/http/handlers"
	httpapi "ledger/internal/http/httpapi"
	"ledger/internal/infra"
	"ledger/internal/infra/geoip"
	"ledger/internal/reporting"
)

func main() {
	// Muat .env (opsional)
	_ = godotenv.Load()

	// Konfigurasi & logger
	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	if cfg.AutoMigrate {
		version, err := db.RunMigrations(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to run migrations")
		}
		logger.Info().Uint("version", version).Msg("migrations applied")
	}

	// DB pool (pgxpool)
	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	runner.AcquireTimeout = cfg.DBAcquireTimeout

	resolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	defer resolver.Close()

	var publisher events.Publisher = events.Nop{}
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("event broker unavailable, donation events disabled")
		} else {
			publisher = client
		}
	}
	defer publisher.Close()

	donations := repo.NewDonationRepository(runner)
	app := &handlers.App{
		SQL:       runner,
		Logger:    logger,
		Donations: donations,
		Reporting: reporting.NewService(donations, cfg.Visibility),
		Auth:      auth.NewService(repo.NewUserRepository(runner), cfg.JWTSecret, cfg.TokenTTL, logger),
		Events:    publisher,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:      cfg.JWTSecret,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRateLimit:  cfg.RateLimitPerMin,
		TrustedProxies: cfg.TrustedProxies,
		DefaultLocale:  "en",
		CountryLookup:  resolver.Lookup(),
		Logger:         logger,
	})

	// HTTP server wrapper dari infra
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("visibility", string(cfg.Visibility)).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}

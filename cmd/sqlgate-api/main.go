package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/ulule/limiter/v3"

	"github.com/edvin/sqlgate/internal/api"
	"github.com/edvin/sqlgate/internal/config"
	"github.com/edvin/sqlgate/internal/core"
	"github.com/edvin/sqlgate/internal/db"
	"github.com/edvin/sqlgate/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg)

	tlsConfig, err := cfg.MySQLTLS()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure mysql TLS")
	}
	if tlsConfig != nil {
		if err := mysql.RegisterTLSConfig(config.MySQLTLSConfigName, tlsConfig); err != nil {
			logger.Fatal().Err(err).Msg("failed to register mysql TLS config")
		}
		logger.Info().Msg("mysql TLS enabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.MySQLDSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mysql")
	}
	defer pool.Close()
	db.RegisterPoolMetrics(pool)

	if err := db.RunMigrations(pool); err != nil {
		logger.Fatal().Err(err).Msg("migration failed")
	}

	tokens, err := core.NewTokenService(cfg.TokenSecret, cfg.TokenAlgorithm, cfg.TokenTTL)
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid token configuration")
	}

	created, err := core.NewUserService(pool).EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to bootstrap admin user")
	}
	if created {
		logger.Info().Str("username", cfg.AdminUsername).Msg("admin user created")
	} else {
		logger.Info().Str("username", cfg.AdminUsername).Msg("admin user already exists, skipping creation")
	}

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Fatal().Err(err).Str("rate", cfg.RateLimit).Msg("invalid rate limit")
	}

	srv := api.NewServer(logger, pool, tokens, cfg, rate)

	httpServer := &http.Server{
		Addr:         cfg.HTTPListenAddr,
		Handler:      srv,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPListenAddr).Msg("starting API server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
}

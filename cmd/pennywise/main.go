package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pennywise/internal/amqp"
	"pennywise/internal/auth"
	"pennywise/internal/backend"
	"pennywise/internal/cache"
	"pennywise/internal/cli"
	"pennywise/internal/config"
	apphttp "pennywise/internal/http"
	"pennywise/internal/log"
	"pennywise/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig((*config.Config).Validate)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Server exited with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(logger.Logger.With(log.FieldComponent, log.ComponentBackend)).CreateBackend(ctx, backendCfg)
	if err != nil {
		return err
	}
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", log.FieldError, err)
			}
		}()
	}

	var publisher services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return err
		}
		defer client.Close()
		publisher = client
		logger.Info("Publishing expense events", "exchange", cfg.AMQPExchange)
	} else {
		logger.Info("AMQP_URL not set, expense events disabled")
	}

	secret := cfg.JWTSecret
	if secret == "" {
		// Only reachable on the memory backend; sessions die with the process anyway.
		secret = uuid.NewString()
		logger.Warn("JWT_SECRET not set, using a random secret for this process")
	}
	provider, err := auth.NewLocal(result.Store, auth.Options{Secret: secret, TokenTTL: cfg.TokenTTL})
	if err != nil {
		return err
	}

	expenses := services.NewExpenseService(result.Store, publisher, services.Options{
		PageSize: cfg.PageSize,
		CacheTTL: cfg.CacheTTL,
	})

	caches := cache.NewManager(logger.Logger.With(log.FieldComponent, log.ComponentCache))
	caches.Register("expense_lists", expenses.Cache())
	caches.Register("revoked_tokens", provider.Revocations())

	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Expenses:           expenses,
		Auth:               provider,
		Pinger:             result.Store,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	logger.Info("Starting pennywise server", "port", cfg.Port, log.FieldBackend, cfg.DataBackend)

	g, gctx := errgroup.WithContext(ctx)
	cleanupCtx, stopCleanup := context.WithCancel(gctx)
	g.Go(func() error {
		defer stopCleanup()
		return cli.ServeHTTP(gctx, logger, &srv.Server, 30*time.Second)
	})
	g.Go(func() error {
		return caches.Run(cleanupCtx, time.Minute)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

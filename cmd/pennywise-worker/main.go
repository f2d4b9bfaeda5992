package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"pennywise/internal/amqp"
	"pennywise/internal/cache"
	"pennywise/internal/cli"
	"pennywise/internal/config"
	"pennywise/internal/log"
	"pennywise/internal/metrics"
	"pennywise/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	cfg, logger := cli.LoadAndValidateConfig((*config.Config).ValidateWorker)
	logger = logger.WithComponent(log.ComponentWorker)

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Worker exited with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *log.Logger) error {
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return err
	}
	defer client.Close()

	ew := worker.NewEventWorker()
	caches := cache.NewManager(logger.Logger.With(log.FieldComponent, log.ComponentCache))
	caches.Register("seen_events", ew.Seen())
	caches.StartCleanup(10 * time.Minute)
	defer caches.Stop()

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	metricsSrv := &http.Server{
		Addr:              ":" + cfg.MetricsPort,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("Starting pennywise-worker", "queue", cfg.AMQPQueue, "metrics_port", cfg.MetricsPort)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.Consume(gctx, ew.HandleExpenseEvent)
	})
	g.Go(func() error {
		return cli.ServeHTTP(gctx, logger, metricsSrv, 10*time.Second)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

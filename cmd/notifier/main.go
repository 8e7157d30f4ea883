package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legal-literacy-portal/internal/config"
	"legal-literacy-portal/internal/streaming"
	"legal-literacy-portal/pkg/logger"
)

const (
	// Retry settings
	maxRetries     = 5
	baseRetryDelay = 2 * time.Second
	maxRetryDelay  = time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	log = log.WithComponent("notifier-worker")
	logger.SetGlobal(log)

	if !cfg.NATS.Enabled {
		log.Fatal().Msg("nats is disabled, nothing to consume")
	}

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("stream", cfg.NATS.StreamName).
		Msg("starting query notifier")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := run(ctx, cfg.NATS, log); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("notifier stopped with error")
		}
	}()

	select {
	case <-quit:
		log.Info().Msg("shutting down query notifier...")
		cancel()
		<-done
	case <-done:
	}
	log.Info().Msg("shutdown complete")
}

// run connects to NATS, retrying with backoff, and relays events until ctx ends
func run(ctx context.Context, cfg config.NATSConfig, log *logger.Logger) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := calculateBackoff(attempt)
			log.Info().
				Int("attempt", attempt+1).
				Dur("delay", delay).
				Msg("retrying NATS connection after delay")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}

		publisher, err := streaming.NewNATSPublisher(ctx, cfg, log)
		if err != nil {
			lastErr = err
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Int("max_retries", maxRetries).
				Msg("failed to connect to NATS")
			continue
		}

		err = streaming.NewQueryNotifier(publisher, log).Run(ctx)
		publisher.Close()
		return err
	}
	return fmt.Errorf("giving up after %d attempts: %w", maxRetries+1, lastErr)
}

// calculateBackoff doubles the delay per attempt up to maxRetryDelay
func calculateBackoff(attempt int) time.Duration {
	delay := baseRetryDelay * time.Duration(1<<uint(attempt-1))
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}

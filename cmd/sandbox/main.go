package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/NewtTheWolf/sendblue/internal/cache"
	"github.com/NewtTheWolf/sendblue/internal/cache/memory"
	"github.com/NewtTheWolf/sendblue/internal/cache/redis"
	"github.com/NewtTheWolf/sendblue/internal/config"
	"github.com/NewtTheWolf/sendblue/internal/handler"
	"github.com/NewtTheWolf/sendblue/internal/logger"
	"github.com/NewtTheWolf/sendblue/internal/middleware"
	msgRepo "github.com/NewtTheWolf/sendblue/internal/repository/memory"
	routes "github.com/NewtTheWolf/sendblue/internal/router"
	"github.com/NewtTheWolf/sendblue/internal/scheduler"
	"github.com/NewtTheWolf/sendblue/internal/server"
	"github.com/NewtTheWolf/sendblue/internal/service"
	"github.com/NewtTheWolf/sendblue/internal/webhook"
	"github.com/NewtTheWolf/sendblue/phonenumber"
)

func main() {
	// Base context for the whole application lifetime.
	rootCtx := context.Background()

	logger.UseMillisecondDurations()

	// Load configuration from environment/.env.
	cfg, err := config.Load()
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	log, err := logger.New(cfg.App.Env, cfg.LogLevel)
	if err != nil {
		fallback := zerolog.New(os.Stderr)
		fallback.Fatal().Err(err).Msg("failed to build logger")
	}
	log = log.With().Str("app", cfg.App.Name).Logger()

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	from, err := phonenumber.Parse(cfg.Sandbox.FromNumber, "")
	if err != nil {
		log.Fatal().Err(err).Str("from", cfg.Sandbox.FromNumber).Msg("invalid SANDBOX_FROM_NUMBER")
	}

	// Init cache. Redis when configured, otherwise process memory.
	var evalCache cache.Cache = memory.New()
	if cfg.Sandbox.Redis.Addr != "" {
		rc := redis.New(cfg.Sandbox.Redis.Addr, cfg.Sandbox.Redis.Password, cfg.Sandbox.Redis.DB)
		if err := rc.Ping(rootCtx); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Sandbox.Redis.Addr).Msg("failed to connect to redis")
		}
		defer rc.Close()
		evalCache = rc
		log.Info().Str("addr", cfg.Sandbox.Redis.Addr).Msg("using redis evaluation cache")
	}

	// Status callbacks.
	notifier := webhook.NewClient(cfg.Sandbox.CallbackTimeout, cfg.App.Name+"-sandbox")

	// Message
	msgSvc := service.NewMessageService(
		msgRepo.NewRepository(),
		evalCache,
		notifier,
		service.Options{
			From:              from,
			AccountEmail:      cfg.Sandbox.AccountEmail,
			SMSOnlyRegions:    cfg.Sandbox.SMSOnlyRegions,
			CacheTTL:          cfg.Sandbox.CacheTTL,
			BatchSize:         cfg.Sandbox.BatchSize,
			MaxWorkers:        cfg.Sandbox.MaxWorkers,
			PerMessageTimeout: cfg.Sandbox.CallbackTimeout,
		},
		log,
	)

	// Cron
	cron := scheduler.NewSchedulerService(
		msgSvc,
		cfg.Sandbox.TickInterval,
		cfg.Sandbox.BatchTimeout,
		log,
	)

	// HTTP dependencies & server wiring.
	deps := routes.AppDeps{
		Home:      handler.NewHomeHandler(cfg.App.Name, cron),
		Message:   handler.NewMessageHandler(msgSvc),
		Scheduler: handler.NewSchedulerHandler(cron),
		Auth:      middleware.APIKeyAuth(cfg.Sendblue.APIKey, cfg.Sendblue.APISecret),
	}

	addr := cfg.SandboxAddr()
	srv := server.New(addr, deps, log)

	// Create a context that is cancelled on SIGINT/SIGTERM (Ctrl+C, docker stop etc.).
	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the HTTP server in a separate goroutine so we can listen for signals.
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	// Start the scheduler after everything is wired up.
	if err := cron.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler failed to start")
	}
	log.Info().Dur("interval", cfg.Sandbox.TickInterval).Msg("scheduler started")

	// Block until we receive a shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, starting graceful shutdown")

	// Give components some time to shut down cleanly.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Stop the scheduler (waits for in-flight batch to finish or timeout).
	if err := cron.Stop(); err != nil {
		log.Error().Err(err).Msg("scheduler could not be stopped")
	} else {
		log.Info().Msg("scheduler stopped")
	}

	// Gracefully shut down the HTTP server.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server graceful shutdown failed")
	} else {
		log.Info().Msg("HTTP server stopped")
	}

	log.Info().Msg("shutdown complete")
}

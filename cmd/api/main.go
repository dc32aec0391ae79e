package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/zenvy/zenvy-sales-bot/internal/api/router"
	"github.com/zenvy/zenvy-sales-bot/internal/assistant"
	appconfig "github.com/zenvy/zenvy-sales-bot/internal/config"
	"github.com/zenvy/zenvy-sales-bot/internal/funnel"
	"github.com/zenvy/zenvy-sales-bot/internal/http/handlers"
	"github.com/zenvy/zenvy-sales-bot/internal/ledger"
	"github.com/zenvy/zenvy-sales-bot/internal/notify"
	"github.com/zenvy/zenvy-sales-bot/internal/observability/metrics"
	"github.com/zenvy/zenvy-sales-bot/internal/session"
	"github.com/zenvy/zenvy-sales-bot/internal/sweeper"
	"github.com/zenvy/zenvy-sales-bot/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting zenvy-sales-bot API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session store: Redis when configured, otherwise in-memory.
	var sessions session.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Error("failed to connect to redis", "error", err, "addr", cfg.RedisAddr)
			os.Exit(1)
		}
		sessions = session.NewRedisStore(redisClient, logger)
		logger.Info("session store: redis", "addr", cfg.RedisAddr)
	} else {
		sessions = session.NewInMemoryStore()
		logger.Warn("session store: in-memory, sessions will not survive restarts")
	}

	// Lead ledger: Postgres when configured, otherwise in-memory.
	var leads ledger.Ledger
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leads = ledger.NewPostgresLedger(pool)
		logger.Info("lead ledger: postgres")
	} else {
		leads = ledger.NewInMemoryLedger()
		logger.Warn("lead ledger: in-memory, leads will not survive restarts")
	}

	sender := notify.NewWhatsAppSender(cfg.WhatsAppToken, cfg.PhoneNumberID, cfg.GraphAPIVersion, logger)
	admin := notify.NewAdminNotifier(sender, cfg.AdminPhone)

	var responder assistant.Responder = assistant.Static{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := assistant.NewGeminiCompleter(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini client", "error", err)
			os.Exit(1)
		}
		defer func() { _ = gemini.Close() }()
		responder = assistant.NewAI(gemini, logger)
		logger.Info("assistant: gemini", "model", cfg.GeminiModelID)
	} else {
		logger.Warn("assistant: static fallback, GEMINI_API_KEY not set")
	}

	funnelMetrics := metrics.NewFunnelMetrics(nil)

	engine := funnel.NewEngine(funnel.Config{
		Sessions:  sessions,
		Ledger:    leads,
		Replies:   sender,
		Admin:     admin,
		Assistant: responder,
		Metrics:   funnelMetrics,
		Logger:    logger,
	})

	// Follow-up sweep runs on its own ticker, independent of message handling.
	followUps := sweeper.New(sessions, sender, cfg.StalenessThreshold, funnelMetrics, logger)
	go func() {
		ticker := time.NewTicker(cfg.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := followUps.Sweep(ctx); err != nil {
					logger.Error("follow-up sweep failed", "error", err)
				}
			}
		}
	}()

	webhook := handlers.NewWhatsAppWebhookHandler(cfg.VerifyToken, engine, logger)

	r := router.New(&router.Config{
		Logger:         logger,
		Webhook:        webhook,
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

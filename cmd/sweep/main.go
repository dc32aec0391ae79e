// Command sweep runs one follow-up sweep over all sessions and exits. It is
// the manual/cron entry point for deployments that do not keep the API server
// ticker running.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/zenvy/zenvy-sales-bot/internal/config"
	"github.com/zenvy/zenvy-sales-bot/internal/notify"
	"github.com/zenvy/zenvy-sales-bot/internal/session"
	"github.com/zenvy/zenvy-sales-bot/internal/sweeper"
	"github.com/zenvy/zenvy-sales-bot/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.RedisAddr == "" {
		logger.Error("REDIS_ADDR is required: a one-shot sweep needs a persistent session store")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", "error", err, "addr", cfg.RedisAddr)
		os.Exit(1)
	}

	sessions := session.NewRedisStore(redisClient, logger)
	sender := notify.NewWhatsAppSender(cfg.WhatsAppToken, cfg.PhoneNumberID, cfg.GraphAPIVersion, logger)

	count, err := sweeper.New(sessions, sender, cfg.StalenessThreshold, nil, logger).Sweep(ctx)
	if err != nil {
		logger.Error("sweep failed", "error", err)
		os.Exit(1)
	}
	logger.Info("sweep complete", "reminders", count)
}

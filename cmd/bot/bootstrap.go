package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"sentiment-trading-bot/internal/botlog"
	"sentiment-trading-bot/internal/engine"
	"sentiment-trading-bot/internal/exchange"
	"sentiment-trading-bot/internal/exchange/exchangeobs"
	"sentiment-trading-bot/internal/interfaces"
	"sentiment-trading-bot/internal/logger"
	"sentiment-trading-bot/internal/notifier"
	"sentiment-trading-bot/internal/sentiment"
	"sentiment-trading-bot/internal/store"
	"sentiment-trading-bot/internal/strategy"
	"sentiment-trading-bot/internal/trace"
)

// initializeSystem wires the whole bot: env, logger, tracer, config, and
// every collaborator the engine needs. Configuration errors are the only
// fatal errors; everything after startup is contained per cycle.
func initializeSystem(ctx context.Context) (*engine.Engine, error) {
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		return nil, fmt.Errorf("initialize logger: %w", err)
	}
	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}

	compressOldLogs(ctx)

	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}

	exch, err := initializeExchange(ctx, cfg)
	if err != nil {
		return nil, err
	}

	strat, err := strategy.Resolve(cfg.Strategy)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to resolve strategy", err)
		return nil, err
	}

	est := sentiment.NewEstimator(cfg.Sentiment.URL, time.Duration(cfg.Sentiment.TimeoutSeconds)*time.Second)
	notif := initializeNotifier(ctx, cfg)

	logger.Info(ctx, "Configuration loaded",
		"exchange", cfg.Exchange,
		"pair", cfg.Pair,
		"trade_amount_usd", cfg.TradeAmount,
		"poll_seconds", cfg.PollSeconds,
		"strategy", cfg.Strategy,
		"email_notifications", cfg.Email.Enabled,
	)

	return engine.New(cfg, exch, strat, est, notif), nil
}

// initializeExchange resolves the gateway by its configured identifier and
// wraps it with observability middleware. An unrecognized identifier fails
// fast before the loop begins.
func initializeExchange(ctx context.Context, cfg *store.Config) (interfaces.Exchange, error) {
	creds := exchange.Creds{
		APIKey:    os.Getenv("API_KEY"),
		APISecret: os.Getenv("API_SECRET"),
	}
	exch, err := exchange.Resolve(cfg.Exchange, creds)
	if err != nil {
		logger.ErrorWithErr(ctx, "Unsupported exchange", err, "exchange", cfg.Exchange)
		return nil, err
	}
	if cfg.Exchange == "sim" || cfg.Exchange == "paper" {
		logger.Warn(ctx, "Running against the simulated exchange - orders are not real")
	}
	return exchangeobs.Wrap(exch), nil
}

// initializeNotifier returns the email notifier when enabled, otherwise a
// log-only fallback.
func initializeNotifier(ctx context.Context, cfg *store.Config) interfaces.Notifier {
	if !cfg.Email.Enabled {
		logger.Info(ctx, "Email notifications disabled - using log notifier")
		return notifier.NewLog()
	}
	return notifier.NewEmail(notifier.EmailConfig{
		Enabled:  true,
		From:     cfg.Email.From,
		To:       cfg.Email.To,
		Password: os.Getenv("EMAIL_PASSWORD"),
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
	})
}

// compressOldLogs gzips old bot log files if retention is configured.
func compressOldLogs(ctx context.Context) {
	v := os.Getenv("BOT_LOG_RETENTION_DAYS")
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn(ctx, "Invalid BOT_LOG_RETENTION_DAYS", "value", v)
		return
	}
	if err := botlog.CompressOlder(n); err != nil {
		logger.Warn(ctx, "Failed to compress old logs", "error", err)
	}
}

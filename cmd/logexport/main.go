// Command logexport post-processes the bot's text log into a CSV table. It
// is a standalone batch pass with no runtime coupling to the bot.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"sentiment-trading-bot/internal/export"
	"sentiment-trading-bot/internal/logger"
)

func main() {
	_ = godotenv.Load()
	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "initialize logger: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()

	inPath := envOr("BOT_LOG_FILE", "trading_bot.log")
	outPath := envOr("BOT_CSV_FILE", "trading_bot_data.csv")

	rows, err := export.Run(inPath, outPath)
	if err != nil {
		logger.ErrorWithErr(ctx, "Export failed", err, "log", inPath, "csv", outPath)
		os.Exit(1)
	}
	logger.Info(ctx, "CSV file created", "csv", outPath, "rows", rows)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

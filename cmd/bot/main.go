package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sentiment-trading-bot/internal/logger"
	"sentiment-trading-bot/internal/trace"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	eng, err := initializeSystem(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "startup failed: %v\n", err)
		os.Exit(1)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigc
		logger.Info(ctx, "Shutting down...")
		cancel()
	}()

	logger.Info(ctx, "Bot started.")
	eng.Run(ctx)

	if err := trace.Shutdown(context.Background()); err != nil {
		logger.Warn(ctx, "Tracer shutdown failed", "error", err)
	}
}

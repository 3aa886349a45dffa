package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/exp/slog"

	"github.com/novacart/checkout/checkout"
	"github.com/novacart/checkout/internal/sl"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg, err := checkout.LoadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Error("loading config", sl.Err(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app := checkout.NewApp(logger, cfg)
	if err := app.Start(); err != nil {
		logger.Error("starting app", sl.Err(err))
		os.Exit(1)
	}

	<-ctx.Done()
	app.Shutdown()
}

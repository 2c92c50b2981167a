package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"arxivdigest/internal/app"
	"arxivdigest/internal/config"
	"arxivdigest/internal/logging"
)

type options struct {
	Config string `short:"c" long:"config" description:"Path to YAML configuration file"`
	Date   string `long:"date" description:"Run date override (YYYY-MM-DD); implies a single run and exit"`
	Once   bool   `long:"once" description:"Execute a single pipeline run and exit"`
}

func main() {
	_ = godotenv.Load()

	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return
		}
		os.Exit(2)
	}

	cfg := config.Load(opts.Config)
	logger := logging.New(cfg.Logging.Level)

	application := app.New(cfg, logger)
	defer application.Close()

	ctx := context.Background()

	now := time.Now()
	if opts.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", opts.Date, cfg.Scheduler.Location())
		if err != nil {
			logger.Error("invalid date override", "date", opts.Date, "error", err)
			os.Exit(2)
		}
		now = parsed
	}

	// Single-shot mode exits cleanly even on partial stage failures so a
	// cron-style caller never sees a crashed job.
	if opts.Once || opts.Date != "" {
		application.RunOnce(ctx, now)
		return
	}

	if err := application.Start(ctx); err != nil {
		logger.Error("scheduler failed to start", "error", err)
		os.Exit(1)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	_ = application.Stop(ctx)
	logger.Info("shutdown complete")
}

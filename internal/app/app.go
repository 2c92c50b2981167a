package app

import (
	"context"
	"log/slog"
	"time"

	"arxivdigest/internal/analysis"
	"arxivdigest/internal/config"
	"arxivdigest/internal/infrastructure/feed"
	"arxivdigest/internal/infrastructure/llm"
	"arxivdigest/internal/infrastructure/render"
	"arxivdigest/internal/infrastructure/scheduler"
	"arxivdigest/internal/infrastructure/site"
	"arxivdigest/internal/infrastructure/store"
	"arxivdigest/internal/infrastructure/telegram"
	"arxivdigest/internal/logging"
	"arxivdigest/internal/ports"
	"arxivdigest/internal/usecase"
	"arxivdigest/internal/window"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
	archive   *store.Archive
	logger    *slog.Logger
}

// New builds a runnable application instance from configuration.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	source := feed.NewArxivSource(nil, cfg.Feed, baseLogger.With("component", "feed"))
	cursor := window.NewFileCursor(cfg.Data.Dir)
	files := store.NewFileStore(cfg.Data.Dir, baseLogger.With("component", "store"))

	var completer ports.Completer
	if cfg.LLM.APIKey != "" {
		completer = llm.NewChatGPTClient(cfg.LLM)
	} else {
		baseLogger.Warn("llm api key not configured, analyze stage will fail")
	}
	analyzer := analysis.NewOrchestrator(completer, baseLogger.With("component", "analysis"))

	renderer := render.NewVisualRenderer(cfg.Data.Dir, cfg.Site.Title, baseLogger.With("component", "render"))
	publisher := site.NewGenerator(cfg.Data.Dir, cfg.Site.OutputDir, cfg.Site.Title, baseLogger.With("component", "site"))

	var announcer ports.Announcer
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		announcer = telegram.NewNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Site.BaseURL)
	} else {
		baseLogger.Info("telegram credentials absent, announce stage disabled")
	}

	deps := usecase.PipelineDeps{
		Source:    source,
		Cursor:    cursor,
		Batches:   files,
		Analyzer:  analyzer,
		Results:   files,
		Renderer:  renderer,
		Publisher: publisher,
		Announcer: announcer,
		Location:  cfg.Scheduler.Location(),
		Logger:    baseLogger.With("component", "pipeline"),
	}

	var archive *store.Archive
	if cfg.Database.Path != "" {
		opened, err := store.OpenArchive(cfg.Database.Path)
		if err != nil {
			baseLogger.Warn("run archive unavailable", "error", err)
		} else {
			archive = opened
			deps.Archive = archive
		}
	}

	pipeline := usecase.NewPipeline(deps)
	driver := scheduler.NewIntervalScheduler(cfg.Scheduler.Interval)

	return &Application{
		cfg:       cfg,
		pipeline:  pipeline,
		scheduler: usecase.NewScheduler(driver, pipeline),
		archive:   archive,
		logger:    baseLogger,
	}
}

// RunOnce performs a single pipeline execution for the given instant. It
// always returns cleanly; partial failures live in logs and the archive.
func (a *Application) RunOnce(ctx context.Context, now time.Time) {
	if a.pipeline == nil {
		return
	}
	a.pipeline.Run(ctx, now.In(a.cfg.Scheduler.Location()))
}

// Start begins scheduled execution.
func (a *Application) Start(ctx context.Context) error {
	if a.scheduler == nil {
		return nil
	}
	return a.scheduler.Start(ctx)
}

// Stop tears down the scheduler.
func (a *Application) Stop(ctx context.Context) error {
	if a.scheduler == nil {
		return nil
	}
	return a.scheduler.Stop(ctx)
}

// Close releases held resources.
func (a *Application) Close() {
	if a.archive != nil {
		_ = a.archive.Close()
	}
}

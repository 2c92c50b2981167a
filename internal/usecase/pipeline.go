package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"arxivdigest/internal/domain"
	"arxivdigest/internal/ports"
	"arxivdigest/internal/window"
)

var (
	errNoSource   = errors.New("paper source is not configured")
	errNoAnalyzer = errors.New("analysis capability is not configured")
)

// PipelineDeps wires all driven adapters into the staged pipeline.
type PipelineDeps struct {
	Source    ports.PaperSource
	Cursor    ports.CursorStore
	Batches   ports.BatchStore
	Analyzer  ports.Analyzer
	Results   ports.ResultsStore
	Renderer  ports.Renderer
	Publisher ports.Publisher
	Announcer ports.Announcer
	Archive   ports.RunArchive
	Location  *time.Location
	Logger    *slog.Logger
}

// StageResult is the terminal outcome of one stage within a run. Failures
// live here instead of propagating: the sequencer's contract is that a
// run always returns control to its caller.
type StageResult struct {
	Stage  domain.Stage
	Status domain.StageStatus
	Err    error
}

// RunReport collects the per-stage results of one pipeline run.
type RunReport struct {
	RunID      string
	Start      time.Time
	End        time.Time
	PaperCount int
	Stages     []StageResult
}

// Status returns the recorded outcome for a stage, or StatusSkipped if
// the run never reached it.
func (r RunReport) Status(stage domain.Stage) domain.StageStatus {
	for _, result := range r.Stages {
		if result.Stage == stage {
			return result.Status
		}
	}
	return domain.StatusSkipped
}

// Pipeline sequences COLLECT, ANALYZE, VISUALIZE, PUBLISH, and ANNOUNCE
// over one query window.
type Pipeline struct {
	source    ports.PaperSource
	cursor    ports.CursorStore
	batches   ports.BatchStore
	analyzer  ports.Analyzer
	results   ports.ResultsStore
	renderer  ports.Renderer
	publisher ports.Publisher
	announcer ports.Announcer
	archive   ports.RunArchive
	location  *time.Location
	logger    *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Pipeline{
		source:    deps.Source,
		cursor:    deps.Cursor,
		batches:   deps.Batches,
		analyzer:  deps.Analyzer,
		results:   deps.Results,
		renderer:  deps.Renderer,
		publisher: deps.Publisher,
		announcer: deps.Announcer,
		archive:   deps.Archive,
		location:  loc,
		logger:    deps.Logger,
	}
}

// Run executes one end-to-end pipeline pass for the window ending at now.
//
// Sequencing rules: a COLLECT or ANALYZE failure skips every remaining
// stage, since there is no artifact to carry downstream. VISUALIZE and
// PUBLISH failures are recorded and the run continues. ANNOUNCE runs last
// and is a no-op when unconfigured. Run never returns an error and never
// lets one escape: failures are reported through the RunReport and logs.
func (p *Pipeline) Run(ctx context.Context, now time.Time) RunReport {
	report := RunReport{RunID: uuid.NewString()[:8]}
	logger := p.log().With("run_id", report.RunID)

	cursor := p.loadCursor(logger)
	report.Start, report.End = window.Plan(cursor, now, p.location)

	logger.Info("pipeline run starting",
		"window_start", report.Start.Format("2006-01-02"),
		"window_end", report.End.Format("2006-01-02"))

	batch, collectOK := p.collect(ctx, logger, &report)
	report.PaperCount = batch.Size()

	var bundle domain.ResultsBundle
	analyzeOK := false
	if collectOK {
		bundle, analyzeOK = p.analyze(ctx, logger, batch, &report)
	} else {
		p.record(&report, domain.StageAnalyze, domain.StatusSkipped, nil)
	}

	if analyzeOK {
		p.visualize(logger, bundle, batch, &report)
		p.publish(logger, bundle, &report)
		p.announce(ctx, logger, bundle, &report)
	} else {
		p.record(&report, domain.StageVisualize, domain.StatusSkipped, nil)
		p.record(&report, domain.StagePublish, domain.StatusSkipped, nil)
		p.record(&report, domain.StageAnnounce, domain.StatusSkipped, nil)
	}

	p.archiveRun(ctx, logger, report, now)

	logger.Info("pipeline run finished",
		"papers", report.PaperCount,
		"collect", report.Status(domain.StageCollect),
		"analyze", report.Status(domain.StageAnalyze),
		"visualize", report.Status(domain.StageVisualize),
		"publish", report.Status(domain.StagePublish),
		"announce", report.Status(domain.StageAnnounce))

	return report
}

// collect fetches the window and persists the batch before advancing the
// cursor. A fetch failure degrades to an empty batch with the cursor
// untouched, so the next run re-attempts the same window. An empty batch
// from a valid window also leaves the cursor in place: there is nothing
// downstream to do and re-querying the window costs nothing.
func (p *Pipeline) collect(ctx context.Context, logger *slog.Logger, report *RunReport) (domain.Batch, bool) {
	batch := domain.Batch{Start: report.Start, End: report.End}

	if p.source == nil {
		p.record(report, domain.StageCollect, domain.StatusFailed, errNoSource)
		logger.Error("collect failed", "error", errNoSource)
		return batch, false
	}

	papers, err := p.source.Fetch(ctx, report.Start, report.End)
	if err != nil {
		p.record(report, domain.StageCollect, domain.StatusFailed, err)
		logger.Error("collect failed, degrading to empty batch", "error", err)
		return batch, false
	}

	batch.Papers = papers
	if batch.Size() == 0 {
		p.record(report, domain.StageCollect, domain.StatusOK, nil)
		logger.Warn("no papers found in window")
		return batch, false
	}

	if p.batches != nil {
		if err := p.batches.SaveBatch(batch); err != nil {
			// Cursor stays put: the next run re-fetches this window.
			p.record(report, domain.StageCollect, domain.StatusFailed, err)
			logger.Error("batch persistence failed, cursor not advanced", "error", err)
			return batch, false
		}
	}

	if p.cursor != nil {
		if err := p.cursor.Save(report.End); err != nil {
			logger.Warn("cursor advance failed, window will be re-fetched", "error", err)
		}
	}

	p.archivePapers(ctx, logger, batch)

	p.record(report, domain.StageCollect, domain.StatusOK, nil)
	logger.Info("collect finished", "papers", batch.Size())
	return batch, true
}

func (p *Pipeline) analyze(ctx context.Context, logger *slog.Logger, batch domain.Batch, report *RunReport) (domain.ResultsBundle, bool) {
	if p.analyzer == nil {
		p.record(report, domain.StageAnalyze, domain.StatusFailed, errNoAnalyzer)
		logger.Error("analyze failed", "error", errNoAnalyzer)
		return domain.ResultsBundle{}, false
	}

	bundle, err := p.analyzer.Analyze(ctx, batch)
	if err != nil {
		p.record(report, domain.StageAnalyze, domain.StatusFailed, err)
		logger.Error("analyze failed, skipping downstream stages", "error", err)
		return domain.ResultsBundle{}, false
	}

	if p.results != nil {
		if err := p.results.SaveResults(bundle); err != nil {
			p.record(report, domain.StageAnalyze, domain.StatusFailed, err)
			logger.Error("results persistence failed", "error", err)
			return domain.ResultsBundle{}, false
		}
	}

	p.record(report, domain.StageAnalyze, domain.StatusOK, nil)
	logger.Info("analyze finished")
	return bundle, true
}

func (p *Pipeline) visualize(logger *slog.Logger, bundle domain.ResultsBundle, batch domain.Batch, report *RunReport) {
	if p.renderer == nil {
		p.record(report, domain.StageVisualize, domain.StatusSkipped, nil)
		return
	}

	if err := p.renderer.Render(bundle, batch); err != nil {
		p.record(report, domain.StageVisualize, domain.StatusFailed, err)
		logger.Error("visualize failed", "error", err)
		return
	}

	p.record(report, domain.StageVisualize, domain.StatusOK, nil)
}

func (p *Pipeline) publish(logger *slog.Logger, bundle domain.ResultsBundle, report *RunReport) {
	if p.publisher == nil {
		p.record(report, domain.StagePublish, domain.StatusSkipped, nil)
		return
	}

	if err := p.publisher.Publish(bundle, report.End); err != nil {
		p.record(report, domain.StagePublish, domain.StatusFailed, err)
		logger.Error("publish failed", "error", err)
		return
	}

	p.record(report, domain.StagePublish, domain.StatusOK, nil)
}

func (p *Pipeline) announce(ctx context.Context, logger *slog.Logger, bundle domain.ResultsBundle, report *RunReport) {
	if p.announcer == nil {
		p.record(report, domain.StageAnnounce, domain.StatusSkipped, nil)
		logger.Info("announce not configured, skipping")
		return
	}

	if err := p.announcer.Announce(ctx, bundle); err != nil {
		p.record(report, domain.StageAnnounce, domain.StatusFailed, err)
		logger.Error("announce failed", "error", err)
		return
	}

	p.record(report, domain.StageAnnounce, domain.StatusOK, nil)
}

func (p *Pipeline) archivePapers(ctx context.Context, logger *slog.Logger, batch domain.Batch) {
	if p.archive == nil {
		return
	}

	ids := make([]string, 0, batch.Size())
	for _, paper := range batch.Papers {
		ids = append(ids, paper.ID)
	}

	// Overlapping windows legitimately re-fetch papers; surface the
	// overlap for operators without deduplicating anything.
	if seen, err := p.archive.SeenBefore(ctx, ids); err == nil && len(seen) > 0 {
		logger.Info("batch overlaps earlier windows", "already_seen", len(seen))
	}

	if err := p.archive.RecordPapers(ctx, batch.Papers); err != nil {
		logger.Warn("paper archive failed", "error", err)
	}
}

func (p *Pipeline) archiveRun(ctx context.Context, logger *slog.Logger, report RunReport, startedAt time.Time) {
	if p.archive == nil {
		return
	}

	record := domain.RunRecord{
		RunID:      report.RunID,
		Start:      report.Start,
		End:        report.End,
		PaperCount: report.PaperCount,
		StartedAt:  startedAt,
		Stages: map[domain.Stage]domain.StageStatus{
			domain.StageCollect:   report.Status(domain.StageCollect),
			domain.StageAnalyze:   report.Status(domain.StageAnalyze),
			domain.StageVisualize: report.Status(domain.StageVisualize),
			domain.StagePublish:   report.Status(domain.StagePublish),
			domain.StageAnnounce:  report.Status(domain.StageAnnounce),
		},
	}

	if err := p.archive.RecordRun(ctx, record); err != nil {
		logger.Warn("run archive failed", "error", err)
	}
}

func (p *Pipeline) loadCursor(logger *slog.Logger) time.Time {
	if p.cursor == nil {
		return time.Time{}
	}

	cursor, err := p.cursor.Load()
	if err != nil {
		logger.Warn("cursor load failed, treating as first run", "error", err)
		return time.Time{}
	}
	return cursor
}

func (p *Pipeline) record(report *RunReport, stage domain.Stage, status domain.StageStatus, err error) {
	report.Stages = append(report.Stages, StageResult{Stage: stage, Status: status, Err: err})
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}

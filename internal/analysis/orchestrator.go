package analysis

import (
	"context"
	"fmt"
	"log/slog"

	"arxivdigest/internal/domain"
	"arxivdigest/internal/ports"
)

// Orchestrator runs the four derived-artifact generators against a batch.
// Each generator is a single completion call; the first failure aborts the
// whole stage so a partial bundle can never escape.
type Orchestrator struct {
	completer ports.Completer
	logger    *slog.Logger
}

// NewOrchestrator wires the text-completion capability.
func NewOrchestrator(completer ports.Completer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{completer: completer, logger: logger}
}

// Analyze produces a fully populated results bundle or an error.
//
// Generator order: analyze and spot-trends have no data dependency on each
// other; write-summary consumes both of their outputs and select-top-articles
// consumes the analysis. Execution is sequential regardless.
func (o *Orchestrator) Analyze(ctx context.Context, batch domain.Batch) (domain.ResultsBundle, error) {
	if o.completer == nil {
		return domain.ResultsBundle{}, fmt.Errorf("analysis capability is not configured")
	}

	papers := formatPapers(batch.Papers)

	analysis, err := o.generate(ctx, "paper_analyzer", analyzePrompt(papers))
	if err != nil {
		return domain.ResultsBundle{}, fmt.Errorf("analyze papers: %w", err)
	}

	trends, err := o.generate(ctx, "trend_spotter", trendsPrompt(papers))
	if err != nil {
		return domain.ResultsBundle{}, fmt.Errorf("spot trends: %w", err)
	}

	summary, err := o.generate(ctx, "summary_writer", summaryPrompt(analysis, trends))
	if err != nil {
		return domain.ResultsBundle{}, fmt.Errorf("write summary: %w", err)
	}

	topArticles, err := o.generate(ctx, "article_selector", topArticlesPrompt(papers, analysis))
	if err != nil {
		return domain.ResultsBundle{}, fmt.Errorf("select top articles: %w", err)
	}

	return domain.ResultsBundle{
		Analysis:    analysis,
		Trends:      trends,
		Summary:     summary,
		TopArticles: topArticles,
	}, nil
}

func (o *Orchestrator) generate(ctx context.Context, generator, prompt string) (string, error) {
	if o.logger != nil {
		o.logger.Debug("running generator", "generator", generator, "prompt_len", len(prompt))
	}

	text, err := o.completer.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("generator %s returned empty text", generator)
	}

	return text, nil
}

package ports

import (
	"context"
	"time"

	"arxivdigest/internal/domain"
)

// PaperSource pulls papers from the upstream feed for an inclusive
// calendar-day window. An inverted window (start after end) is a valid
// query that yields an empty result.
type PaperSource interface {
	Fetch(ctx context.Context, start, end time.Time) ([]domain.Paper, error)
}

// Completer is the opaque text-completion capability behind the four
// analysis generators.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Analyzer turns a batch into a fully populated results bundle, or fails
// the analysis stage as a whole.
type Analyzer interface {
	Analyze(ctx context.Context, batch domain.Batch) (domain.ResultsBundle, error)
}

// CursorStore persists the last successfully processed date boundary.
// Load returns the zero time when no cursor exists yet.
type CursorStore interface {
	Load() (time.Time, error)
	Save(date time.Time) error
}

// BatchStore persists the fetched batch. A batch must be durably written
// before the cursor is advanced.
type BatchStore interface {
	SaveBatch(batch domain.Batch) error
}

// ResultsStore persists a fully populated results bundle.
type ResultsStore interface {
	SaveResults(bundle domain.ResultsBundle) error
}

// Renderer produces the visual artifacts (word cloud, relationship graph,
// summary page) from a batch and its results bundle.
type Renderer interface {
	Render(bundle domain.ResultsBundle, batch domain.Batch) error
}

// Publisher templates the final page into the output location. Missing
// prerequisite artifacts surface as errors, not panics.
type Publisher interface {
	Publish(bundle domain.ResultsBundle, date time.Time) error
}

// Announcer posts the excerpt to an outbound social channel.
type Announcer interface {
	Announce(ctx context.Context, bundle domain.ResultsBundle) error
}

// RunArchive records run history and processed papers for audit. Duplicate
// paper ids across overlapping windows upsert rather than error.
type RunArchive interface {
	RecordPapers(ctx context.Context, papers []domain.Paper) error
	RecordRun(ctx context.Context, run domain.RunRecord) error
	SeenBefore(ctx context.Context, ids []string) (map[string]bool, error)
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}

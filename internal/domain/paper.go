package domain

import "time"

// Paper is a core entity describing one record pulled from the upstream feed.
// Immutable once parsed; owned by the batch that produced it.
type Paper struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Authors    []string  `json:"authors"`
	Categories []string  `json:"categories"`
	Link       string    `json:"link"`
	Published  time.Time `json:"published"`
	Updated    time.Time `json:"updated"`
}

// Batch holds the papers fetched for one query window.
type Batch struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Papers []Paper   `json:"papers"`
}

// Size reports the number of papers in the batch.
func (b Batch) Size() int {
	return len(b.Papers)
}

// ResultsBundle carries the four derived text artifacts of the analysis
// stage. A bundle is either fully populated or the analysis stage failed;
// partial bundles are never persisted.
type ResultsBundle struct {
	Analysis    string `json:"analysis"`
	Trends      string `json:"trends"`
	Summary     string `json:"summary"`
	TopArticles string `json:"top_articles"`
}

// Complete reports whether every field of the bundle is populated.
func (r ResultsBundle) Complete() bool {
	return r.Analysis != "" && r.Trends != "" && r.Summary != "" && r.TopArticles != ""
}

// Stage enumerates the pipeline state machine.
type Stage string

const (
	StageCollect   Stage = "collect"
	StageAnalyze   Stage = "analyze"
	StageVisualize Stage = "visualize"
	StagePublish   Stage = "publish"
	StageAnnounce  Stage = "announce"
)

// StageStatus describes the terminal outcome of one stage within a run.
type StageStatus string

const (
	StatusOK      StageStatus = "ok"
	StatusFailed  StageStatus = "failed"
	StatusSkipped StageStatus = "skipped"
)

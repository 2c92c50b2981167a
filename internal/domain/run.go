package domain

import "time"

// RunRecord summarizes one pipeline run for the audit archive.
type RunRecord struct {
	RunID      string
	Start      time.Time
	End        time.Time
	PaperCount int
	Stages     map[Stage]StageStatus
	StartedAt  time.Time
}

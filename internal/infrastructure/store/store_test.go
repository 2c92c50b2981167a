package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"arxivdigest/internal/domain"
)

func sampleBatch() domain.Batch {
	return domain.Batch{
		Start: time.Date(2024, time.June, 7, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC),
		Papers: []domain.Paper{
			{
				ID:        "http://arxiv.org/abs/2406.00001v1",
				Title:     "Sparse Attention at Scale",
				Summary:   "We study sparse attention.",
				Authors:   []string{"Ada Lovelace"},
				Published: time.Date(2024, time.June, 10, 1, 2, 3, 0, time.UTC),
			},
		},
	}
}

func TestFileStoreSaveBatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fs := NewFileStore(dir, nil)

	if err := fs.SaveBatch(sampleBatch()); err != nil {
		t.Fatalf("SaveBatch error: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, BatchFileName))
	if err != nil {
		t.Fatalf("read batch file: %v", err)
	}

	var loaded domain.Batch
	if err := json.Unmarshal(raw, &loaded); err != nil {
		t.Fatalf("decode batch file: %v", err)
	}
	if loaded.Size() != 1 || loaded.Papers[0].Title != "Sparse Attention at Scale" {
		t.Fatalf("unexpected batch content: %+v", loaded)
	}
}

func TestFileStoreRejectsPartialBundle(t *testing.T) {
	t.Parallel()

	fs := NewFileStore(t.TempDir(), nil)

	partial := domain.ResultsBundle{Analysis: "a", Trends: "t"}
	if err := fs.SaveResults(partial); err == nil {
		t.Fatalf("expected partial bundle to be rejected")
	}
}

func TestFileStoreResultsRoundTrip(t *testing.T) {
	t.Parallel()

	fs := NewFileStore(t.TempDir(), nil)

	bundle := domain.ResultsBundle{
		Analysis:    "per-paper analysis",
		Trends:      "1. Sparse models",
		Summary:     "A good week for efficiency research.",
		TopArticles: "1. Sparse Attention at Scale",
	}
	if err := fs.SaveResults(bundle); err != nil {
		t.Fatalf("SaveResults error: %v", err)
	}

	loaded, err := fs.LoadResults()
	if err != nil {
		t.Fatalf("LoadResults error: %v", err)
	}
	if loaded != bundle {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestOpenArchiveCreatesParentDir(t *testing.T) {
	t.Parallel()

	// A fresh install opens the archive before any stage has created the
	// data directory.
	path := filepath.Join(t.TempDir(), "data", "archive.db")

	archive, err := OpenArchive(path)
	if err != nil {
		t.Fatalf("OpenArchive under missing dir: %v", err)
	}
	defer archive.Close()

	if err := archive.RecordPapers(context.Background(), sampleBatch().Papers); err != nil {
		t.Fatalf("RecordPapers error: %v", err)
	}
}

func TestArchiveRecordsRunsAndPapers(t *testing.T) {
	t.Parallel()

	archive, err := OpenArchive(filepath.Join(t.TempDir(), "archive.db"))
	if err != nil {
		t.Fatalf("OpenArchive error: %v", err)
	}
	defer archive.Close()

	ctx := context.Background()
	batch := sampleBatch()

	if err := archive.RecordPapers(ctx, batch.Papers); err != nil {
		t.Fatalf("RecordPapers error: %v", err)
	}

	// A re-fetched overlapping window upserts the same id without error.
	if err := archive.RecordPapers(ctx, batch.Papers); err != nil {
		t.Fatalf("RecordPapers duplicate error: %v", err)
	}

	seen, err := archive.SeenBefore(ctx, []string{batch.Papers[0].ID, "missing"})
	if err != nil {
		t.Fatalf("SeenBefore error: %v", err)
	}
	if !seen[batch.Papers[0].ID] || seen["missing"] {
		t.Fatalf("unexpected seen map: %v", seen)
	}

	run := domain.RunRecord{
		RunID:      "run-1",
		Start:      batch.Start,
		End:        batch.End,
		PaperCount: batch.Size(),
		Stages: map[domain.Stage]domain.StageStatus{
			domain.StageCollect:   domain.StatusOK,
			domain.StageAnalyze:   domain.StatusOK,
			domain.StageVisualize: domain.StatusOK,
			domain.StagePublish:   domain.StatusFailed,
			domain.StageAnnounce:  domain.StatusSkipped,
		},
		StartedAt: time.Now(),
	}
	if err := archive.RecordRun(ctx, run); err != nil {
		t.Fatalf("RecordRun error: %v", err)
	}
}

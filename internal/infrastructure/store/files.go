package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"arxivdigest/internal/domain"
	"arxivdigest/internal/ports"
)

const (
	// BatchFileName holds the most recently fetched batch as a JSON document.
	BatchFileName = "daily_papers.json"
	// ResultsFileName holds the analysis results bundle.
	ResultsFileName = "content_analysis_results.json"
)

// FileStore persists batches and result bundles as JSON files under the
// data directory. Writes go through a temp-file rename so a crashed run
// never leaves a truncated file behind.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

var _ ports.BatchStore = (*FileStore)(nil)
var _ ports.ResultsStore = (*FileStore)(nil)

// NewFileStore roots all files at dir.
func NewFileStore(dir string, logger *slog.Logger) *FileStore {
	return &FileStore{dir: dir, logger: logger}
}

// SaveBatch durably writes the batch. The caller advances the cursor only
// after this returns nil.
func (s *FileStore) SaveBatch(batch domain.Batch) error {
	if err := s.writeJSON(BatchFileName, batch); err != nil {
		return fmt.Errorf("save batch: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("batch saved", "papers", batch.Size(), "path", filepath.Join(s.dir, BatchFileName))
	}
	return nil
}

// SaveResults durably writes a fully populated bundle.
func (s *FileStore) SaveResults(bundle domain.ResultsBundle) error {
	if !bundle.Complete() {
		return fmt.Errorf("save results: refusing to persist a partial bundle")
	}

	if err := s.writeJSON(ResultsFileName, bundle); err != nil {
		return fmt.Errorf("save results: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("results saved", "path", filepath.Join(s.dir, ResultsFileName))
	}
	return nil
}

// LoadResults reads the persisted bundle back, for callers that run
// downstream stages out of process.
func (s *FileStore) LoadResults() (domain.ResultsBundle, error) {
	var bundle domain.ResultsBundle

	raw, err := os.ReadFile(filepath.Join(s.dir, ResultsFileName))
	if err != nil {
		return bundle, fmt.Errorf("load results: %w", err)
	}

	if err := json.Unmarshal(raw, &bundle); err != nil {
		return bundle, fmt.Errorf("decode results: %w", err)
	}

	return bundle, nil
}

func (s *FileStore) writeJSON(name string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit %s: %w", name, err)
	}

	return nil
}

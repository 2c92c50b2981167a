package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"arxivdigest/internal/domain"
	"arxivdigest/internal/ports"
)

// Archive keeps run history and processed paper ids in an embedded sqlite
// database. It is audit-only: the pipeline works even if every archive
// call fails, and duplicate paper ids upsert rather than error because
// overlapping windows legitimately re-fetch papers.
type Archive struct {
	db *sql.DB
}

var _ ports.RunArchive = (*Archive)(nil)

// OpenArchive opens (and migrates) the sqlite database at path. On a
// fresh install the archive opens before the first collect creates the
// data directory, so the parent directory is created here.
func OpenArchive(path string) (*Archive, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			window_start TEXT NOT NULL,
			window_end TEXT NOT NULL,
			paper_count INTEGER NOT NULL,
			collect_status TEXT NOT NULL,
			analyze_status TEXT NOT NULL,
			visualize_status TEXT NOT NULL,
			publish_status TEXT NOT NULL,
			announce_status TEXT NOT NULL,
			started_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			published TEXT,
			first_seen TEXT NOT NULL,
			last_seen TEXT NOT NULL
		)`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate archive: %w", err)
		}
	}

	return &Archive{db: db}, nil
}

// Close releases the database handle.
func (a *Archive) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// RecordPapers upserts every paper in the batch, refreshing last_seen for
// ids already recorded by an earlier overlapping window.
func (a *Archive) RecordPapers(ctx context.Context, papers []domain.Paper) error {
	if a.db == nil || len(papers) == 0 {
		return nil
	}

	now := time.Now().UTC().Format(time.RFC3339)

	for _, paper := range papers {
		query, args, err := sq.Insert("papers").
			Columns("id", "title", "published", "first_seen", "last_seen").
			Values(paper.ID, paper.Title, paper.Published.UTC().Format(time.RFC3339), now, now).
			Suffix("ON CONFLICT(id) DO UPDATE SET last_seen = excluded.last_seen, title = excluded.title").
			ToSql()
		if err != nil {
			return fmt.Errorf("build paper upsert: %w", err)
		}

		if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert paper %s: %w", paper.ID, err)
		}
	}

	return nil
}

// RecordRun stores the final per-stage outcome of one pipeline run.
func (a *Archive) RecordRun(ctx context.Context, run domain.RunRecord) error {
	if a.db == nil {
		return nil
	}

	query, args, err := sq.Insert("runs").
		Columns("run_id", "window_start", "window_end", "paper_count",
			"collect_status", "analyze_status", "visualize_status",
			"publish_status", "announce_status", "started_at").
		Values(
			run.RunID,
			run.Start.Format("2006-01-02"),
			run.End.Format("2006-01-02"),
			run.PaperCount,
			string(run.Stages[domain.StageCollect]),
			string(run.Stages[domain.StageAnalyze]),
			string(run.Stages[domain.StageVisualize]),
			string(run.Stages[domain.StagePublish]),
			string(run.Stages[domain.StageAnnounce]),
			run.StartedAt.UTC().Format(time.RFC3339),
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build run insert: %w", err)
	}

	if _, err := a.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}

	return nil
}

// SeenBefore reports which of the given ids are already archived.
func (a *Archive) SeenBefore(ctx context.Context, ids []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if a.db == nil || len(ids) == 0 {
		return result, nil
	}

	query, args, err := sq.Select("id").
		From("papers").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build seen query: %w", err)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query seen papers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		result[id] = true
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return result, nil
}

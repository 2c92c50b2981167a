package window

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"arxivdigest/internal/ports"
)

const (
	cursorFileName = "last_run_date.txt"
	dateLayout     = "2006-01-02"
)

// FileCursor persists the collection cursor as a single ISO date in a text
// file. The cursor only moves forward: saves that would regress it are
// ignored so a retried window cannot undo earlier progress.
type FileCursor struct {
	path string
}

var _ ports.CursorStore = (*FileCursor)(nil)

// NewFileCursor stores the cursor inside dir.
func NewFileCursor(dir string) *FileCursor {
	return &FileCursor{path: filepath.Join(dir, cursorFileName)}
}

// Load reads the persisted date. A missing file yields the zero time so
// the planner can apply its first-run default.
func (c *FileCursor) Load() (time.Time, error) {
	raw, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("read cursor: %w", err)
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(string(raw)))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse cursor %q: %w", strings.TrimSpace(string(raw)), err)
	}

	return date, nil
}

// Save writes the date atomically via a temp-file rename. Dates earlier
// than the current cursor are dropped.
func (c *FileCursor) Save(date time.Time) error {
	current, err := c.Load()
	if err == nil && !current.IsZero() && date.Before(current) {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cursor dir: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(date.Format(dateLayout)), 0o644); err != nil {
		return fmt.Errorf("write cursor: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("commit cursor: %w", err)
	}

	return nil
}

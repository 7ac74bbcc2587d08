package migration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gamecatalog/internal/assets"
	"gamecatalog/internal/fileutil"
	"gamecatalog/internal/lockfile"
	"gamecatalog/internal/logging"
	"gamecatalog/internal/preflight"
)

// ErrPreflight is returned when the filesystem is not ready for a run.
var ErrPreflight = errors.New("preflight checks failed")

// Action is what a run did (or would do) with one screenshot.
type Action int

const (
	// ActionConverted means the file was re-encoded and the row repointed.
	ActionConverted Action = iota
	// ActionAlreadyCanonical means the file is already WebP.
	ActionAlreadyCanonical
	// ActionSkippedVector means the file is SVG and is kept as-is.
	ActionSkippedVector
	// ActionPlanned means a dry run would convert the file.
	ActionPlanned
	// ActionFailed means conversion was attempted and failed.
	ActionFailed
)

func (a Action) String() string {
	switch a {
	case ActionConverted:
		return "converted"
	case ActionAlreadyCanonical:
		return "already webp"
	case ActionSkippedVector:
		return "skipped (svg)"
	case ActionPlanned:
		return "would convert"
	case ActionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RunOptions controls a migration run.
type RunOptions struct {
	// DryRun reports planned actions without touching files or rows.
	DryRun bool
	// OnItem is called after each screenshot is handled.
	OnItem func(ItemResult)
}

// ItemResult describes the handling of one screenshot.
type ItemResult struct {
	Entry   Entry
	Action  Action
	NewPath string
	NewSize int64
	// Warning is set when the conversion succeeded but cleanup did not.
	Warning string
	Err     error
}

// RunSummary aggregates a run.
type RunSummary struct {
	DryRun           bool
	Total            int
	Converted        int
	AlreadyCanonical int
	SkippedVector    int
	Planned          int
	BytesBefore      int64
	BytesAfter       int64
	Items            []ItemResult
	// Errors holds one human-readable line per failed record or cleanup problem.
	Errors []string
}

// Migrated counts screenshots that are canonical after the run.
func (s RunSummary) Migrated() int {
	return s.Converted + s.AlreadyCanonical
}

// Run converts every non-canonical raster screenshot to WebP.
func (m *Migrator) Run(ctx context.Context, opts RunOptions) (RunSummary, error) {
	summary := RunSummary{DryRun: opts.DryRun}

	if !opts.DryRun {
		if failed := preflight.Failed(preflight.RunAll(m.cfg)); len(failed) > 0 {
			details := make([]string, 0, len(failed))
			for _, f := range failed {
				details = append(details, f.Name+": "+f.Detail)
			}
			return summary, fmt.Errorf("%w: %s", ErrPreflight, strings.Join(details, "; "))
		}
		lock, err := lockfile.Acquire(m.cfg.Paths.LockFile)
		if err != nil {
			return summary, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				m.logger.Warn("failed to release lock", logging.Error(err))
			}
		}()
	}

	report, err := m.Report(ctx)
	if err != nil {
		return summary, err
	}
	summary.Total = report.Count()

	for _, entry := range report.Entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		item := m.migrateEntry(ctx, entry, opts.DryRun)
		summary.record(item)
		if opts.OnItem != nil {
			opts.OnItem(item)
		}
	}

	m.logger.Info("screenshot migration finished",
		logging.Bool("dry_run", opts.DryRun),
		logging.Int("total", summary.Total),
		logging.Int("converted", summary.Converted),
		logging.Int("errors", len(summary.Errors)),
	)
	return summary, nil
}

func (s *RunSummary) record(item ItemResult) {
	s.Items = append(s.Items, item)
	s.BytesBefore += item.Entry.Size
	switch item.Action {
	case ActionConverted:
		s.Converted++
		s.BytesAfter += item.NewSize
	case ActionAlreadyCanonical:
		s.AlreadyCanonical++
		s.BytesAfter += item.Entry.Size
	case ActionSkippedVector:
		s.SkippedVector++
		s.BytesAfter += item.Entry.Size
	case ActionPlanned:
		s.Planned++
	case ActionFailed:
		s.Errors = append(s.Errors, fmt.Sprintf("%s: %v", item.Entry.Title, item.Err))
		s.BytesAfter += item.Entry.Size
	}
	if item.Warning != "" {
		s.Errors = append(s.Errors, fmt.Sprintf("%s: %s", item.Entry.Title, item.Warning))
	}
}

func (m *Migrator) migrateEntry(ctx context.Context, entry Entry, dryRun bool) ItemResult {
	item := ItemResult{Entry: entry}
	logger := m.logger.With(logging.Int64(logging.FieldRecordID, entry.ID))

	switch entry.Format {
	case assets.ExtRaster:
		item.Action = ActionAlreadyCanonical
		return item
	case assets.ExtVector:
		item.Action = ActionSkippedVector
		return item
	}

	newPath := filepath.Join(m.cfg.Paths.ScreenshotsDir, assets.FileName(entry.ID, entry.Title, assets.ExtRaster))
	item.NewPath = newPath
	if dryRun {
		item.Action = ActionPlanned
		return item
	}

	fail := func(err error) ItemResult {
		item.Action = ActionFailed
		item.Err = err
		logging.WarnWithContext(logger, "screenshot migration failed", "screenshot_migrate_failed",
			logging.String("path", entry.Path),
			logging.String(logging.FieldImpact, "record keeps its original screenshot"),
			logging.Error(err),
		)
		return item
	}

	raw, err := os.ReadFile(entry.Path)
	if err != nil {
		return fail(fmt.Errorf("read screenshot: %w", err))
	}
	encoded, err := m.codec.EncodeRaster(raw)
	if err != nil {
		return fail(fmt.Errorf("conversion error: %w", err))
	}
	if err := fileutil.WriteFileAtomic(newPath, encoded, 0o644); err != nil {
		return fail(fmt.Errorf("write webp: %w", err))
	}
	if err := m.repoint(ctx, entry.ID, newPath); err != nil {
		_, _ = fileutil.RemoveIfExists(newPath)
		return fail(err)
	}

	item.Action = ActionConverted
	item.NewSize = int64(len(encoded))
	if entry.Path != newPath {
		if _, err := fileutil.RemoveIfExists(entry.Path); err != nil {
			item.Warning = fmt.Sprintf("could not remove old file: %v", err)
		}
	}
	logger.Info("screenshot migrated",
		logging.String("from", entry.Path),
		logging.String("to", newPath),
		logging.Int64("bytes_before", entry.Size),
		logging.Int64("bytes_after", item.NewSize),
	)
	return item
}

// repoint updates one record's screenshot path in its own transaction.
func (m *Migrator) repoint(ctx context.Context, id int64, path string) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE games SET screenshot_path = ? WHERE id = ?`, path, id)
	if err != nil {
		return fmt.Errorf("update screenshot path: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("record %d disappeared during migration", id)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

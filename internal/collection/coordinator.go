package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"gamecatalog/internal/assets"
	"gamecatalog/internal/catalog"
	"gamecatalog/internal/logging"
)

// Coordinator applies record mutations across the record store and the
// screenshot directory.
type Coordinator struct {
	records *catalog.Store
	assets  *assets.Store
	logger  *slog.Logger

	mu sync.Mutex
}

// New builds a coordinator over the given stores.
func New(records *catalog.Store, files *assets.Store, logger *slog.Logger) (*Coordinator, error) {
	if records == nil {
		return nil, errors.New("record store is required")
	}
	if files == nil {
		return nil, errors.New("asset store is required")
	}
	return &Coordinator{
		records: records,
		assets:  files,
		logger:  logging.NewComponentLogger(logger, "collection"),
	}, nil
}

// Records exposes the record store for read-only callers.
func (c *Coordinator) Records() *catalog.Store {
	return c.records
}

// AddRecord creates a record and, when payload carries data, stores its
// screenshot. A failed screenshot save leaves the record without one.
func (c *Coordinator) AddRecord(ctx context.Context, fields catalog.Fields, payload Payload) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id, err := c.records.Create(ctx, fields)
	if err != nil {
		return 0, fmt.Errorf("create record: %w", err)
	}
	ctx = logging.WithRecordID(ctx, id)
	logger := logging.WithContext(ctx, c.logger)

	if payload.Kind() == PayloadNew {
		saved := c.assets.Save(payload.Data(), id, fields.Title)
		if saved.Path != "" {
			if err := c.records.SetScreenshotPath(ctx, id, saved.Path); err != nil {
				// Keep the directory free of files no row points at.
				c.assets.Delete(saved.Path)
				return id, fmt.Errorf("record screenshot path: %w", err)
			}
		} else {
			logging.WarnWithContext(logger, "record added without screenshot", "screenshot_dropped",
				logging.String(logging.FieldImpact, "record saved with no screenshot"),
				logging.String("save_status", saved.Status.String()),
			)
		}
	}

	logger.Info("record added", logging.String("title", fields.Title))
	return id, nil
}

// UpdateRecord overwrites the fields of id and applies payload to its
// screenshot. It reports false, touching no files, when id does not exist.
//
// The old screenshot is deleted before a new one is written; if the new
// write fails the record ends up with no screenshot. The row is updated
// last, so if that update fails after a clear or replace the old file is
// already gone while the row still names it. Readers treat such a stale
// path as no screenshot and DeleteRecord tolerates it.
func (c *Coordinator) UpdateRecord(ctx context.Context, id int64, fields catalog.Fields, payload Payload) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	fields, err := fields.Normalize()
	if err != nil {
		return false, err
	}
	ctx = logging.WithRecordID(ctx, id)
	logger := logging.WithContext(ctx, c.logger)

	oldPath, found, err := c.records.ScreenshotPath(ctx, id)
	if err != nil {
		return false, err
	}
	if !found {
		logger.Debug("update skipped; record not found")
		return false, nil
	}

	newPath := oldPath
	switch payload.Kind() {
	case PayloadClear:
		c.assets.Delete(oldPath)
		newPath = ""
	case PayloadNew:
		c.assets.Delete(oldPath)
		saved := c.assets.Save(payload.Data(), id, fields.Title)
		newPath = saved.Path
		if saved.Path == "" {
			logging.WarnWithContext(logger, "screenshot replacement failed", "screenshot_dropped",
				logging.String(logging.FieldImpact, "record no longer has a screenshot"),
				logging.String("save_status", saved.Status.String()),
			)
		}
	}

	ok, err := c.records.Update(ctx, id, fields, newPath)
	if err != nil {
		if newPath != oldPath {
			c.assets.Delete(newPath)
		}
		if payload.Kind() != PayloadAbsent && oldPath != "" {
			logging.WarnWithContext(logger, "record update failed after screenshot removal", "screenshot_path_stale",
				logging.String("path", oldPath),
				logging.String(logging.FieldImpact, "record points at a deleted screenshot until its next update"),
				logging.Error(err),
			)
		}
		return false, fmt.Errorf("update record: %w", err)
	}
	if ok {
		logger.Info("record updated", logging.String("screenshot", payload.Kind().String()))
	}
	return ok, nil
}

// DeleteRecord removes id and its screenshot. It reports false when id does
// not exist. A screenshot that cannot be removed does not block the row.
func (c *Coordinator) DeleteRecord(ctx context.Context, id int64) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx = logging.WithRecordID(ctx, id)
	logger := logging.WithContext(ctx, c.logger)

	path, found, err := c.records.ScreenshotPath(ctx, id)
	if err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}

	c.assets.Delete(path)
	ok, err := c.records.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	logger.Info("record deleted")
	return ok, nil
}

// List returns all records with their derived read fields.
func (c *Coordinator) List(ctx context.Context) ([]catalog.Record, error) {
	return c.records.List(ctx)
}

// Statistics returns per-status counts.
func (c *Coordinator) Statistics(ctx context.Context) (catalog.Statistics, error) {
	return c.records.Statistics(ctx)
}

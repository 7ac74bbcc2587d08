package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gamecatalog/internal/logging"
)

// Create inserts a record with no screenshot and returns its identifier.
func (s *Store) Create(ctx context.Context, fields Fields) (int64, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return 0, err
	}
	timestamp := formatTime(time.Now())

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO games (
            title, version, status, rating, review, game_link, screenshot_path, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, '', ?, ?)`,
		fields.Title,
		fields.Version,
		string(fields.Status),
		fields.Rating,
		fields.Review,
		fields.GameLink,
		timestamp,
		timestamp,
	)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	s.logger.Debug("record created",
		logging.Int64(logging.FieldRecordID, id),
		logging.String("title", fields.Title),
	)
	return id, nil
}

// Get fetches a record by identifier. It returns nil, nil when absent.
// Derived read fields other than DisplayLink are left empty.
func (s *Store) Get(ctx context.Context, id int64) (*Record, error) {
	ctx = ensureContext(ctx)
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM games WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// ScreenshotPath returns the stored screenshot path for id. found is false
// when the record does not exist.
func (s *Store) ScreenshotPath(ctx context.Context, id int64) (path string, found bool, err error) {
	ctx = ensureContext(ctx)
	var value sql.NullString
	err = s.db.QueryRowContext(ctx, `SELECT screenshot_path FROM games WHERE id = ?`, id).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get screenshot path: %w", err)
	}
	return value.String, true, nil
}

// List returns every record ordered by status priority then newest first,
// with screenshot data inlined.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM games `+listOrder,
		listOrderArgs()...,
	)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}

	if s.inliner != nil {
		for i := range records {
			if records[i].ScreenshotPath != "" {
				records[i].ScreenshotData = s.inliner.DataURI(records[i].ScreenshotPath)
			}
		}
	}
	return records, nil
}

// Update overwrites every mutable field and the screenshot path of id and
// refreshes updated_at. It reports false when the record does not exist.
func (s *Store) Update(ctx context.Context, id int64, fields Fields, screenshotPath string) (bool, error) {
	fields, err := fields.Normalize()
	if err != nil {
		return false, err
	}
	res, err := s.execWithRetry(
		ctx,
		`UPDATE games
         SET title = ?, version = ?, status = ?, rating = ?,
             review = ?, game_link = ?, screenshot_path = ?, updated_at = ?
         WHERE id = ?`,
		fields.Title,
		fields.Version,
		string(fields.Status),
		fields.Rating,
		fields.Review,
		fields.GameLink,
		screenshotPath,
		formatTime(time.Now()),
		id,
	)
	if err != nil {
		return false, fmt.Errorf("update record: %w", err)
	}
	return affected(res)
}

// SetScreenshotPath records path as the screenshot of id.
func (s *Store) SetScreenshotPath(ctx context.Context, id int64, path string) error {
	if _, err := s.execWithRetry(ctx, `UPDATE games SET screenshot_path = ? WHERE id = ?`, path, id); err != nil {
		return fmt.Errorf("set screenshot path: %w", err)
	}
	return nil
}

// Delete removes id. It reports false when nothing was deleted.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	return affected(res)
}

// Statistics counts all records and the records in each known status.
func (s *Store) Statistics(ctx context.Context) (Statistics, error) {
	ctx = ensureContext(ctx)
	var stats Statistics
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&stats.Total); err != nil {
		return Statistics{}, fmt.Errorf("count records: %w", err)
	}

	args := listOrderArgs()
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM games WHERE status IN (?, ?, ?, ?) GROUP BY status`,
		args...,
	)
	if err != nil {
		return Statistics{}, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return Statistics{}, fmt.Errorf("scan status count: %w", err)
		}
		stats.add(Status(status), count)
	}
	if err := rows.Err(); err != nil {
		return Statistics{}, fmt.Errorf("iterate status counts: %w", err)
	}
	return stats, nil
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

package catalog

import (
	"database/sql"
	"errors"
	"time"

	"gamecatalog/internal/textutil"
)

// timestampLayout is fixed-width so text ordering matches time ordering, and
// shares its prefix with SQLite's CURRENT_TIMESTAMP format.
const timestampLayout = "2006-01-02 15:04:05.000000"

const recordColumns = "id, title, version, status, rating, review, game_link, screenshot_path, created_at, updated_at"

// listOrder sorts by status priority, newest first within a status.
const listOrder = `ORDER BY
    CASE status
        WHEN ? THEN 1
        WHEN ? THEN 2
        WHEN ? THEN 3
        WHEN ? THEN 4
        ELSE 5
    END,
    created_at DESC,
    id DESC`

func listOrderArgs() []any {
	args := make([]any, 0, len(statusOrder))
	for _, status := range statusOrder {
		args = append(args, string(status))
	}
	return args
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id             int64
		title          sql.NullString
		version        sql.NullString
		status         sql.NullString
		rating         sql.NullFloat64
		review         sql.NullString
		gameLink       sql.NullString
		screenshotPath sql.NullString
		createdRaw     sql.NullString
		updatedRaw     sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&title,
		&version,
		&status,
		&rating,
		&review,
		&gameLink,
		&screenshotPath,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	rec := &Record{
		ID:             id,
		Title:          title.String,
		Version:        version.String,
		Status:         Status(status.String),
		Rating:         rating.Float64,
		Review:         review.String,
		GameLink:       gameLink.String,
		ScreenshotPath: screenshotPath.String,
		DisplayLink:    textutil.DisplayLink(gameLink.String),
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		rec.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		rec.UpdatedAt = updated
	}
	return rec, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(timestampLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

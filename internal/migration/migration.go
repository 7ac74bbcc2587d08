package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gamecatalog/internal/catalog"
	"gamecatalog/internal/config"
	"gamecatalog/internal/imaging"
	"gamecatalog/internal/logging"
)

// ErrNoDatabase is returned when the catalog database does not exist yet.
var ErrNoDatabase = errors.New("catalog database not found")

// Migrator converts stored screenshots for one catalog.
type Migrator struct {
	cfg    *config.Config
	db     *sql.DB
	codec  *imaging.Codec
	logger *slog.Logger
}

// New opens the catalog database named by cfg. It never creates one.
func New(cfg *config.Config, logger *slog.Logger) (*Migrator, error) {
	if cfg == nil {
		return nil, errors.New("migration requires config")
	}
	if _, err := os.Stat(cfg.Paths.Database); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNoDatabase, cfg.Paths.Database)
		}
		return nil, fmt.Errorf("stat database: %w", err)
	}
	db, err := catalog.OpenDB(cfg.Paths.Database)
	if err != nil {
		return nil, err
	}
	logger = logging.NewComponentLogger(logger, "migration")
	codec := imaging.New(imaging.OptionsFromConfig(cfg.Assets), logger)
	return &Migrator{cfg: cfg, db: db, codec: codec, logger: logger}, nil
}

// Close releases the database handle.
func (m *Migrator) Close() error {
	if m == nil || m.db == nil {
		return nil
	}
	return m.db.Close()
}

type screenshotRow struct {
	id    int64
	title string
	path  string
}

func (m *Migrator) screenshotRows(ctx context.Context) ([]screenshotRow, error) {
	rows, err := m.db.QueryContext(ctx,
		`SELECT id, title, screenshot_path FROM games WHERE screenshot_path != '' ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query screenshots: %w", err)
	}
	defer rows.Close()

	var out []screenshotRow
	for rows.Next() {
		var (
			row   screenshotRow
			title sql.NullString
			path  sql.NullString
		)
		if err := rows.Scan(&row.id, &title, &path); err != nil {
			return nil, fmt.Errorf("scan screenshot row: %w", err)
		}
		row.title = title.String
		row.path = path.String
		if row.path == "" {
			continue
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate screenshot rows: %w", err)
	}
	return out, nil
}

// formatOf returns the lower-case extension of path including the dot.
func formatOf(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

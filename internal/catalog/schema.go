package catalog

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"gamecatalog/internal/logging"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// initSchema brings the database to schemaVersion. Three cases:
// a fresh file, a games table written before versioning (adopted in place),
// and a versioned database that must match exactly.
func (s *Store) initSchema(ctx context.Context) error {
	version, versioned, err := s.readSchemaVersion(ctx)
	if err != nil {
		return err
	}
	if versioned {
		if version != schemaVersion {
			return fmt.Errorf("%w: database has version %d, expected %d",
				ErrSchemaMismatch, version, schemaVersion)
		}
		return nil
	}

	legacy, err := s.tableExists(ctx, "games")
	if err != nil {
		return err
	}
	if err := s.applySchema(ctx); err != nil {
		return err
	}
	if legacy {
		s.logger.Info("adopted unversioned catalog database",
			logging.String("path", s.path),
			logging.Int("schema_version", schemaVersion),
		)
	}
	return nil
}

// readSchemaVersion returns versioned=false when the schema_version table is
// absent or empty.
func (s *Store) readSchemaVersion(ctx context.Context) (int, bool, error) {
	exists, err := s.tableExists(ctx, "schema_version")
	if err != nil || !exists {
		return 0, false, err
	}
	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, true, nil
}

func (s *Store) tableExists(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", name, err)
	}
	return n > 0, nil
}

// applySchema runs the idempotent schema script and stamps the version in one
// transaction.
func (s *Store) applySchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM schema_version"); err != nil {
		return fmt.Errorf("reset schema version: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

package migration

import (
	"context"

	"gamecatalog/internal/assets"
	"gamecatalog/internal/fileutil"
)

// MissingFile names a record whose screenshot path points nowhere.
type MissingFile struct {
	ID    int64
	Title string
	Path  string
}

// Verification summarizes the state of stored screenshot paths.
type Verification struct {
	Canonical    int
	NonCanonical int
	Missing      []MissingFile
}

// OK reports whether at least one screenshot is canonical and none are missing.
func (v Verification) OK() bool {
	return v.Canonical > 0 && len(v.Missing) == 0
}

// Verify classifies every non-empty screenshot path and lists missing files.
func (m *Migrator) Verify(ctx context.Context) (Verification, error) {
	rows, err := m.screenshotRows(ctx)
	if err != nil {
		return Verification{}, err
	}

	var v Verification
	for _, row := range rows {
		if formatOf(row.path) == assets.ExtRaster {
			v.Canonical++
		} else {
			v.NonCanonical++
		}
		if _, ok := fileutil.RegularFileSize(row.path); !ok {
			v.Missing = append(v.Missing, MissingFile{ID: row.id, Title: row.title, Path: row.path})
		}
	}
	return v, nil
}

package assets

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gamecatalog/internal/fileutil"
	"gamecatalog/internal/imaging"
	"gamecatalog/internal/logging"
	"gamecatalog/internal/textutil"
)

// File extensions for stored screenshots.
const (
	ExtRaster = ".webp"
	ExtVector = ".svg"
)

const (
	mimeVector = "image/svg+xml"
	mimeRaster = "image/webp"
)

// SaveStatus tags the result of Save.
type SaveStatus int

const (
	// SaveEmpty means no payload was supplied and nothing was written.
	SaveEmpty SaveStatus = iota
	// SaveWritten means a file now exists at SaveResult.Path.
	SaveWritten
	// SaveFailed means the payload could not be stored.
	SaveFailed
)

func (s SaveStatus) String() string {
	switch s {
	case SaveEmpty:
		return "empty"
	case SaveWritten:
		return "written"
	case SaveFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SaveResult describes a Save call. Path is empty unless Status is SaveWritten.
type SaveResult struct {
	Path    string
	Status  SaveStatus
	Outcome imaging.Outcome
	Err     error
}

// DeleteStatus tags the result of Delete.
type DeleteStatus int

const (
	DeleteSkipped DeleteStatus = iota
	DeleteRemoved
	DeleteFailed
)

func (s DeleteStatus) String() string {
	switch s {
	case DeleteSkipped:
		return "skipped"
	case DeleteRemoved:
		return "removed"
	case DeleteFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DeleteResult describes a Delete call.
type DeleteResult struct {
	Status DeleteStatus
	Err    error
}

// Store manages screenshot files inside a single directory.
type Store struct {
	dir    string
	codec  *imaging.Codec
	logger *slog.Logger
}

// New binds a store to dir. The directory is created lazily on first Save.
func New(dir string, codec *imaging.Codec, logger *slog.Logger) *Store {
	if codec == nil {
		codec = imaging.New(imaging.Options{}, logger)
	}
	return &Store{
		dir:    dir,
		codec:  codec,
		logger: logging.NewComponentLogger(logger, "assets"),
	}
}

// Dir returns the managed directory.
func (s *Store) Dir() string {
	return s.dir
}

// FileName builds the canonical file name for a record.
func FileName(id int64, title, ext string) string {
	return strconv.FormatInt(id, 10) + "_" + textutil.NormalizeFileName(title) + ext
}

// ExtensionFor picks the stored extension from the final payload bytes.
func ExtensionFor(data []byte) string {
	if imaging.Classify(data) == imaging.KindVector {
		return ExtVector
	}
	return ExtRaster
}

// Save optimizes payload and writes it as {id}_{title}{ext}. An empty payload
// is a no-op.
func (s *Store) Save(payload string, id int64, title string) SaveResult {
	if payload == "" {
		return SaveResult{Status: SaveEmpty}
	}
	logger := s.logger.With(logging.Int64(logging.FieldRecordID, id))

	optimized := s.codec.Optimize(payload)
	data, err := base64.StdEncoding.DecodeString(imaging.StripDataURI(optimized.Data))
	if err != nil {
		return s.saveFailed(logger, optimized.Outcome, fmt.Errorf("decode payload: %w", err))
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return s.saveFailed(logger, optimized.Outcome, fmt.Errorf("create screenshots dir: %w", err))
	}

	path := filepath.Join(s.dir, FileName(id, title, ExtensionFor(data)))
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return s.saveFailed(logger, optimized.Outcome, fmt.Errorf("write screenshot: %w", err))
	}

	logger.Debug("screenshot stored",
		logging.String("path", path),
		logging.Int("bytes", len(data)),
		logging.String("outcome", optimized.Outcome.String()),
	)
	return SaveResult{Path: path, Status: SaveWritten, Outcome: optimized.Outcome}
}

func (s *Store) saveFailed(logger *slog.Logger, outcome imaging.Outcome, err error) SaveResult {
	logging.ErrorWithContext(logger, "screenshot save failed", "screenshot_save_failed",
		logging.String(logging.FieldErrorHint, "check screenshots directory permissions and free space"),
		logging.Error(err),
	)
	return SaveResult{Status: SaveFailed, Outcome: outcome, Err: err}
}

// Delete removes the file at path. Empty or missing paths are skipped.
func (s *Store) Delete(path string) DeleteResult {
	if path == "" {
		return DeleteResult{Status: DeleteSkipped}
	}
	removed, err := fileutil.RemoveIfExists(path)
	if err != nil {
		logging.WarnWithContext(s.logger, "screenshot delete failed", "screenshot_delete_failed",
			logging.String("path", path),
			logging.String(logging.FieldImpact, "orphaned screenshot file left on disk"),
			logging.Error(err),
		)
		return DeleteResult{Status: DeleteFailed, Err: err}
	}
	if !removed {
		return DeleteResult{Status: DeleteSkipped}
	}
	s.logger.Debug("screenshot removed", logging.String("path", path))
	return DeleteResult{Status: DeleteRemoved}
}

// Exists reports whether path names an existing regular file.
func (s *Store) Exists(path string) bool {
	_, ok := fileutil.RegularFileSize(path)
	return ok
}

// DataURI returns the file at path as a MIME-tagged base64 data URI, or ""
// when the path is empty, missing, or unreadable.
func (s *Store) DataURI(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("screenshot unreadable",
				logging.String("path", path),
				logging.Error(err),
			)
		}
		return ""
	}
	mime := mimeRaster
	if strings.EqualFold(filepath.Ext(path), ExtVector) {
		mime = mimeVector
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

package api

import (
	"context"
	"fmt"
	"log/slog"

	"gamecatalog/internal/assets"
	"gamecatalog/internal/catalog"
	"gamecatalog/internal/collection"
	"gamecatalog/internal/config"
	"gamecatalog/internal/imaging"
	"gamecatalog/internal/logging"
)

// Service exposes catalog operations to the UI.
type Service struct {
	coord  *collection.Coordinator
	logger *slog.Logger
}

// NewService wraps an existing coordinator.
func NewService(coord *collection.Coordinator, logger *slog.Logger) *Service {
	return &Service{
		coord:  coord,
		logger: logging.NewComponentLogger(logger, "api"),
	}
}

// Open wires the stores described by cfg into a Service. The returned close
// function releases the database.
func Open(cfg *config.Config, logger *slog.Logger) (*Service, func() error, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("configuration is required")
	}
	codec := imaging.New(imaging.OptionsFromConfig(cfg.Assets), logging.NewComponentLogger(logger, "imaging"))
	files := assets.New(cfg.Paths.ScreenshotsDir, codec, logger)

	store, err := catalog.Open(cfg, catalog.WithInliner(files), catalog.WithLogger(logger))
	if err != nil {
		return nil, nil, fmt.Errorf("open catalog store: %w", err)
	}
	coord, err := collection.New(store, files, logger)
	if err != nil {
		_ = store.Close()
		return nil, nil, err
	}
	return NewService(coord, logger), store.Close, nil
}

// LoadAll returns every game in display order.
func (s *Service) LoadAll(ctx context.Context) []Game {
	records, err := s.coord.List(ctx)
	if err != nil {
		logging.ErrorWithContext(logging.WithContext(ctx, s.logger), "load games failed", "load_failed",
			logging.Error(err),
		)
		return []Game{}
	}
	return FromRecords(records)
}

// Get returns game id. ok is false when it does not exist or cannot be read.
func (s *Service) Get(ctx context.Context, id int64) (Game, bool) {
	rec, err := s.coord.Records().Get(ctx, id)
	if err != nil {
		logging.ErrorWithContext(logging.WithContext(logging.WithRecordID(ctx, id), s.logger), "get game failed", "load_failed",
			logging.Error(err),
		)
		return Game{}, false
	}
	if rec == nil {
		return Game{}, false
	}
	return FromRecord(*rec), true
}

// Add creates a game. screenshot is nil when no screenshot was supplied.
func (s *Service) Add(ctx context.Context, input GameInput, screenshot *string) bool {
	id, err := s.coord.AddRecord(ctx, input.Fields(), collection.PayloadFromPointer(screenshot))
	if err != nil {
		logging.ErrorWithContext(logging.WithContext(ctx, s.logger), "add game failed", "add_failed",
			logging.String("title", input.Title),
			logging.Error(err),
		)
		return false
	}
	return id > 0
}

// Update overwrites game id. A nil screenshot leaves it unchanged, an empty
// one removes it.
func (s *Service) Update(ctx context.Context, id int64, input GameInput, screenshot *string) bool {
	ok, err := s.coord.UpdateRecord(ctx, id, input.Fields(), collection.PayloadFromPointer(screenshot))
	if err != nil {
		logging.ErrorWithContext(logging.WithContext(logging.WithRecordID(ctx, id), s.logger), "update game failed", "update_failed",
			logging.Error(err),
		)
		return false
	}
	return ok
}

// Delete removes game id and its screenshot.
func (s *Service) Delete(ctx context.Context, id int64) bool {
	ok, err := s.coord.DeleteRecord(ctx, id)
	if err != nil {
		logging.ErrorWithContext(logging.WithContext(logging.WithRecordID(ctx, id), s.logger), "delete game failed", "delete_failed",
			logging.Error(err),
		)
		return false
	}
	return ok
}

// Statistics returns record counts, or zeros when they cannot be read.
func (s *Service) Statistics(ctx context.Context) Statistics {
	stats, err := s.coord.Statistics(ctx)
	if err != nil {
		logging.ErrorWithContext(logging.WithContext(ctx, s.logger), "statistics failed", "statistics_failed",
			logging.Error(err),
		)
		return Statistics{}
	}
	return FromStatistics(stats)
}

// Version reports the application name and version.
func (s *Service) Version() VersionInfo {
	return VersionInfo{Name: config.AppName, Version: config.AppVersion}
}

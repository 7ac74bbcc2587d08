package api

import (
	"gamecatalog/internal/catalog"
)

// FromRecord converts a catalog record to its API representation.
func FromRecord(rec catalog.Record) Game {
	dto := Game{
		ID:             rec.ID,
		Title:          rec.Title,
		Version:        rec.Version,
		Status:         string(rec.Status),
		Rating:         rec.Rating,
		Review:         rec.Review,
		GameLink:       rec.GameLink,
		ScreenshotPath: rec.ScreenshotPath,
		ScreenshotData: rec.ScreenshotData,
		DisplayLink:    rec.DisplayLink,
	}
	if !rec.CreatedAt.IsZero() {
		dto.CreatedAt = rec.CreatedAt.UTC().Format(dateTimeFormat)
	}
	if !rec.UpdatedAt.IsZero() {
		dto.UpdatedAt = rec.UpdatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromRecords converts a slice of records, never returning nil.
func FromRecords(records []catalog.Record) []Game {
	out := make([]Game, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRecord(rec))
	}
	return out
}

// Fields converts the input into catalog fields.
func (in GameInput) Fields() catalog.Fields {
	return catalog.Fields{
		Title:    in.Title,
		Version:  in.Version,
		Status:   catalog.Status(in.Status),
		Rating:   float64(in.Rating),
		Review:   in.Review,
		GameLink: in.GameLink,
	}
}

// FromStatistics converts catalog statistics to the API shape.
func FromStatistics(stats catalog.Statistics) Statistics {
	return Statistics{
		TotalGames: stats.Total,
		Completed:  stats.Completed,
		Playing:    stats.Playing,
		Planned:    stats.Planned,
		Dropped:    stats.Dropped,
	}
}

// Input returns the editable fields of g.
func (g Game) Input() GameInput {
	return GameInput{
		Title:    g.Title,
		Version:  g.Version,
		Status:   g.Status,
		Rating:   Rating(g.Rating),
		Review:   g.Review,
		GameLink: g.GameLink,
	}
}

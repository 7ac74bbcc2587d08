package catalog

import (
	"fmt"
	"strings"
	"time"
)

// Status is the play state of a record.
type Status string

const (
	StatusPlanned   Status = "planned"
	StatusPlaying   Status = "playing"
	StatusCompleted Status = "completed"
	StatusDropped   Status = "dropped"
)

// DefaultStatus is applied when a write leaves the status empty.
const DefaultStatus = StatusPlanned

// statusOrder lists known statuses in display priority. Unknown values sort
// after all of them.
var statusOrder = []Status{
	StatusPlaying,
	StatusCompleted,
	StatusPlanned,
	StatusDropped,
}

// AllStatuses returns the known statuses in display priority.
func AllStatuses() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// ParseStatus normalizes raw into a known status. Empty input yields the
// default status.
func ParseStatus(raw string) (Status, error) {
	value := Status(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return DefaultStatus, nil
	}
	if value.Valid() {
		return value, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range statusOrder {
		if s == known {
			return true
		}
	}
	return false
}

// Fields is the mutable part of a record accepted by create and update.
type Fields struct {
	Title    string
	Version  string
	Status   Status
	Rating   float64
	Review   string
	GameLink string
}

// Normalize validates f and applies defaults.
func (f Fields) Normalize() (Fields, error) {
	if strings.TrimSpace(f.Title) == "" {
		return f, ErrTitleRequired
	}
	status, err := ParseStatus(string(f.Status))
	if err != nil {
		return f, err
	}
	f.Status = status
	return f, nil
}

// Record is a stored game entry plus the fields derived on read.
type Record struct {
	ID             int64
	Title          string
	Version        string
	Status         Status
	Rating         float64
	Review         string
	GameLink       string
	ScreenshotPath string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// ScreenshotData is the stored screenshot as a data URI, or "" when the
	// path is empty or the file is gone.
	ScreenshotData string
	// DisplayLink is GameLink shortened for presentation.
	DisplayLink string
}

// Fields returns the mutable portion of the record.
func (r Record) Fields() Fields {
	return Fields{
		Title:    r.Title,
		Version:  r.Version,
		Status:   r.Status,
		Rating:   r.Rating,
		Review:   r.Review,
		GameLink: r.GameLink,
	}
}

// Statistics summarizes record counts per status.
type Statistics struct {
	Total     int
	Completed int
	Playing   int
	Planned   int
	Dropped   int
}

// Count returns the tally for status.
func (s Statistics) Count(status Status) int {
	switch status {
	case StatusCompleted:
		return s.Completed
	case StatusPlaying:
		return s.Playing
	case StatusPlanned:
		return s.Planned
	case StatusDropped:
		return s.Dropped
	default:
		return 0
	}
}

func (s *Statistics) add(status Status, count int) {
	switch status {
	case StatusCompleted:
		s.Completed += count
	case StatusPlaying:
		s.Playing += count
	case StatusPlanned:
		s.Planned += count
	case StatusDropped:
		s.Dropped += count
	}
}

// Inliner renders a stored screenshot path as an inline data URI.
type Inliner interface {
	DataURI(path string) string
}

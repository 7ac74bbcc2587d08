package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// dateTimeFormat is used for timestamps in API payloads.
const dateTimeFormat = "2006-01-02 15:04:05"

// Game describes a catalog record in a transport-friendly format.
type Game struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Version        string  `json:"version"`
	Status         string  `json:"status"`
	Rating         float64 `json:"rating"`
	Review         string  `json:"review"`
	GameLink       string  `json:"game_link"`
	ScreenshotPath string  `json:"screenshot_path"`
	CreatedAt      string  `json:"created_at,omitempty"`
	UpdatedAt      string  `json:"updated_at,omitempty"`
	ScreenshotData string  `json:"screenshot_data"`
	DisplayLink    string  `json:"display_link"`
}

// GameInput is the field set accepted by Add and Update. Missing keys take
// their defaults.
type GameInput struct {
	Title    string `json:"title"`
	Version  string `json:"version"`
	Status   string `json:"status"`
	Rating   Rating `json:"rating"`
	Review   string `json:"review"`
	GameLink string `json:"game_link"`
}

// Rating is a score that decodes from a JSON number, a numeric string, or null.
type Rating float64

// UnmarshalJSON implements json.Unmarshaler.
func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*r = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("rating %q is not a number", s)
		}
		*r = Rating(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("rating: %w", err)
	}
	*r = Rating(v)
	return nil
}

// Statistics provides total and per-status record counts.
type Statistics struct {
	TotalGames int `json:"total_games"`
	Completed  int `json:"completed"`
	Playing    int `json:"playing"`
	Planned    int `json:"planned"`
	Dropped    int `json:"dropped"`
}

// VersionInfo identifies the running application.
type VersionInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// GameListResponse wraps a collection of games for API responses.
type GameListResponse struct {
	Games []Game `json:"games"`
}

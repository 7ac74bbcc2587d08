package logging

import "log/slog"

// NewNop returns a logger that drops every record. Tests and constructors
// handed a nil logger use it.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

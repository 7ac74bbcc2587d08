// Package config loads, normalizes, and validates gamecatalog configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GAMECATALOG_DATA_DIR. The Config type centralizes every knob the CLI, the
// HTTP bridge, and the screenshot migrator need so the database file, the
// screenshot directory, and the asset encoder settings are discovered in one
// pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and clear validation errors.
package config

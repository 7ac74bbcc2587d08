package config

import (
	"errors"
	"fmt"
	"net"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateAssets(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.Database == c.Paths.ScreenshotsDir {
		return errors.New("paths.database and paths.screenshots_dir must differ")
	}
	return nil
}

func (c *Config) validateAssets() error {
	if c.Assets.MaxWidth <= 0 {
		return errors.New("assets.max_width must be positive")
	}
	if c.Assets.Quality < 1 || c.Assets.Quality > 100 {
		return errors.New("assets.quality must be between 1 and 100")
	}
	if c.Assets.Method < 0 || c.Assets.Method > 6 {
		return errors.New("assets.method must be between 0 and 6")
	}
	if c.Assets.MaxPixels <= 0 {
		return errors.New("assets.max_pixels must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if _, _, err := net.SplitHostPort(c.API.Bind); err != nil {
		return fmt.Errorf("api.bind: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

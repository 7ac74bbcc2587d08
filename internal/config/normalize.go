package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAPI()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("GAMECATALOG_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}

	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}

	c.Paths.Database, err = c.resolveUnderDataDir(c.Paths.Database, defaultDatabaseName)
	if err != nil {
		return fmt.Errorf("paths.database: %w", err)
	}
	c.Paths.ScreenshotsDir, err = c.resolveUnderDataDir(c.Paths.ScreenshotsDir, defaultScreenshotsDir)
	if err != nil {
		return fmt.Errorf("paths.screenshots_dir: %w", err)
	}
	c.Paths.LockFile, err = c.resolveUnderDataDir(c.Paths.LockFile, defaultLockFileName)
	if err != nil {
		return fmt.Errorf("paths.lock_file: %w", err)
	}
	return nil
}

// resolveUnderDataDir expands value, placing relative paths inside DataDir.
func (c *Config) resolveUnderDataDir(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	if !strings.HasPrefix(value, "~") && !filepath.IsAbs(value) {
		value = filepath.Join(c.Paths.DataDir, value)
	}
	return expandPath(value)
}

func (c *Config) normalizeAPI() {
	if value, ok := os.LookupEnv("GAMECATALOG_API_BIND"); ok && strings.TrimSpace(value) != "" {
		c.API.Bind = value
	}
	if value, ok := os.LookupEnv("GAMECATALOG_API_TOKEN"); ok {
		c.API.Token = value
	}
	c.API.Token = strings.TrimSpace(c.API.Token)
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.File = strings.TrimSpace(c.Logging.File)
	if c.Logging.File != "" {
		if expanded, err := c.resolveUnderDataDir(c.Logging.File, ""); err == nil {
			c.Logging.File = expanded
		}
	}
}

package config

const (
	// AppName is the human-readable application name.
	AppName = "Game Collection Manager"
	// AppVersion is reported by the version endpoint and CLI command.
	AppVersion = "1.12.0"

	defaultDataDir        = "~/.local/share/gamecatalog"
	defaultDatabaseName   = "games.db"
	defaultScreenshotsDir = "screenshots"
	defaultLockFileName   = "gamecatalog.lock"
	defaultMaxWidth       = 1200
	defaultQuality        = 85
	defaultMethod         = 6
	defaultMaxPixels      = 89_478_485
	defaultAPIBind        = "127.0.0.1:8742"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults. Database,
// screenshot, and lock paths are left empty and derived from DataDir during
// normalization.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Assets: Assets{
			MaxWidth:  defaultMaxWidth,
			Quality:   defaultQuality,
			Method:    defaultMethod,
			MaxPixels: defaultMaxPixels,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

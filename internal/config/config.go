// Package config provides centralized configuration management for the
// storefront CLI. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast on
// misconfiguration. Command-line flags override the loaded values.
package config

import "time"

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Catalog CatalogConfig
	Import  ImportConfig
	Output  OutputConfig
	Logging LoggingConfig
}

// CatalogConfig holds catalog access settings.
type CatalogConfig struct {
	// AccessToken authorizes imports. Any non-empty value is accepted.
	// Supports both STOREFRONT_ACCESS_TOKEN and ACCESS_TOKEN.
	AccessToken string `env:"STOREFRONT_ACCESS_TOKEN" envAlt:"ACCESS_TOKEN" default:"storefront-cli"`
}

// ImportConfig holds input file processing settings.
type ImportConfig struct {
	// CommentPrefix marks lines to skip (default: #)
	CommentPrefix string `env:"IMPORT_COMMENT_PREFIX" default:"#"`

	// MaxLineBytes is the longest accepted input line (default: 1MiB)
	MaxLineBytes int `env:"IMPORT_MAX_LINE_BYTES" default:"1048576"`

	// Timeout bounds a whole command run; 0 disables it (default: 0s)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" default:"0s"`

	// WallpaperDimensions is "fixed" or "parsed" (default: fixed)
	WallpaperDimensions string `env:"WALLPAPER_DIMENSIONS" default:"fixed"`

	// WallpaperWidth is the default wallpaper width in pixels (default: 1920)
	WallpaperWidth int `env:"WALLPAPER_DEFAULT_WIDTH" default:"1920"`

	// WallpaperHeight is the default wallpaper height in pixels (default: 1080)
	WallpaperHeight int `env:"WALLPAPER_DEFAULT_HEIGHT" default:"1080"`
}

// OutputConfig holds result rendering settings.
type OutputConfig struct {
	// Style is "plain" or "styled" (default: plain)
	Style string `env:"OUTPUT_STYLE" default:"plain"`

	// ShowClause adds the matching clause to every result row (default: false)
	ShowClause bool `env:"OUTPUT_SHOW_CLAUSE" default:"false"`

	// Columns lists the result table columns, comma-separated
	Columns []string `env:"OUTPUT_COLUMNS" default:"type,name,author,rating,price,detail"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `env:"LOG_LEVEL" default:"warn"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

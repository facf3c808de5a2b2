package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Column names accepted by OUTPUT_COLUMNS.
var validColumns = map[string]bool{
	"type": true, "name": true, "author": true, "rating": true,
	"price": true, "detail": true, "categories": true, "clause": true,
}

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
func Load() (*Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom is Load with a custom variable lookup.
func LoadFrom(getenv func(string) string) (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem(), getenv); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
// Every bad variable is reported, not only the first.
func loadStruct(v reflect.Value, getenv func(string) string) error {
	var errs []string
	walk(v, getenv, &errs)
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func walk(v reflect.Value, getenv func(string) string, errs *[]string) {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			walk(fieldVal, getenv, errs)
			continue
		}

		envName := field.Tag.Get("env")
		if envName == "" {
			continue
		}

		value, set := lookup(getenv, envName, field.Tag.Get("envAlt"))
		if !set {
			if field.Tag.Get("required") == "true" {
				*errs = append(*errs, fmt.Sprintf("required environment variable %s is not set", envName))
				continue
			}
			value = field.Tag.Get("default")
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			*errs = append(*errs, fmt.Sprintf("invalid value for %s=%q: %v", envName, value, err))
		}
	}
}

// lookup tries the primary variable, then the alternate.
func lookup(getenv func(string) string, name, alt string) (string, bool) {
	if v := strings.TrimSpace(getenv(name)); v != "" {
		return v, true
	}
	if alt != "" {
		if v := strings.TrimSpace(getenv(alt)); v != "" {
			return v, true
		}
	}
	return "", false
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
			return nil
		}
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		if field.OverflowInt(i) {
			return fmt.Errorf("integer %d out of range", i)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				result = append(result, p)
			}
		}
		field.Set(reflect.ValueOf(result))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Catalog.AccessToken == "" {
		errs = append(errs, "STOREFRONT_ACCESS_TOKEN must not be empty")
	}

	if c.Import.MaxLineBytes <= 0 {
		errs = append(errs, "IMPORT_MAX_LINE_BYTES must be positive")
	}
	if c.Import.Timeout < 0 {
		errs = append(errs, "IMPORT_TIMEOUT must be non-negative")
	}
	switch strings.ToLower(c.Import.WallpaperDimensions) {
	case "fixed", "parsed":
	default:
		errs = append(errs, fmt.Sprintf("WALLPAPER_DIMENSIONS (%q) must be one of: fixed, parsed", c.Import.WallpaperDimensions))
	}
	if c.Import.WallpaperWidth < 0 || c.Import.WallpaperHeight < 0 {
		errs = append(errs, fmt.Sprintf("wallpaper default dimensions (%dx%d) must be non-negative",
			c.Import.WallpaperWidth, c.Import.WallpaperHeight))
	}

	switch strings.ToLower(c.Output.Style) {
	case "plain", "styled":
	default:
		errs = append(errs, fmt.Sprintf("OUTPUT_STYLE (%q) must be one of: plain, styled", c.Output.Style))
	}
	for _, col := range c.Output.Columns {
		if !validColumns[strings.ToLower(col)] {
			errs = append(errs, fmt.Sprintf("OUTPUT_COLUMNS contains unknown column %q", col))
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe string representation of the config for logging.
// The access token is masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString("Catalog: {AccessToken: [MASKED]}, ")
	fmt.Fprintf(&b, "Import: {CommentPrefix: %q, MaxLineBytes: %d, Timeout: %s, WallpaperDimensions: %q, Wallpaper: %dx%d}, ",
		c.Import.CommentPrefix, c.Import.MaxLineBytes, c.Import.Timeout,
		c.Import.WallpaperDimensions, c.Import.WallpaperWidth, c.Import.WallpaperHeight)
	fmt.Fprintf(&b, "Output: {Style: %q, ShowClause: %v, Columns: %v}, ",
		c.Output.Style, c.Output.ShowClause, c.Output.Columns)
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}

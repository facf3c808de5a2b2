package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFrom(env(nil))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Catalog.AccessToken != "storefront-cli" {
		t.Errorf("Catalog.AccessToken = %q, want %q", cfg.Catalog.AccessToken, "storefront-cli")
	}
	if cfg.Import.CommentPrefix != "#" {
		t.Errorf("Import.CommentPrefix = %q, want %q", cfg.Import.CommentPrefix, "#")
	}
	if cfg.Import.MaxLineBytes != 1<<20 {
		t.Errorf("Import.MaxLineBytes = %d, want %d", cfg.Import.MaxLineBytes, 1<<20)
	}
	if cfg.Import.WallpaperDimensions != "fixed" {
		t.Errorf("Import.WallpaperDimensions = %q, want %q", cfg.Import.WallpaperDimensions, "fixed")
	}
	if cfg.Import.WallpaperWidth != 1920 || cfg.Import.WallpaperHeight != 1080 {
		t.Errorf("wallpaper defaults = %dx%d, want 1920x1080", cfg.Import.WallpaperWidth, cfg.Import.WallpaperHeight)
	}
	if cfg.Import.Timeout != 0 {
		t.Errorf("Import.Timeout = %v, want 0", cfg.Import.Timeout)
	}
	if cfg.Output.Style != "plain" {
		t.Errorf("Output.Style = %q, want %q", cfg.Output.Style, "plain")
	}
	want := []string{"type", "name", "author", "rating", "price", "detail"}
	if !reflect.DeepEqual(cfg.Output.Columns, want) {
		t.Errorf("Output.Columns = %v, want %v", cfg.Output.Columns, want)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "warn")
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{
		"STOREFRONT_ACCESS_TOKEN": "secret",
		"WALLPAPER_DIMENSIONS":    "parsed",
		"OUTPUT_SHOW_CLAUSE":      "true",
		"LOG_LEVEL":               "debug",
		"IMPORT_TIMEOUT":          "90s",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Catalog.AccessToken != "secret" {
		t.Errorf("Catalog.AccessToken = %q, want %q", cfg.Catalog.AccessToken, "secret")
	}
	if cfg.Import.WallpaperDimensions != "parsed" {
		t.Errorf("Import.WallpaperDimensions = %q, want %q", cfg.Import.WallpaperDimensions, "parsed")
	}
	if !cfg.Output.ShowClause {
		t.Error("Output.ShowClause = false, want true")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Import.Timeout != 90*time.Second {
		t.Errorf("Import.Timeout = %v, want 90s", cfg.Import.Timeout)
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("OUTPUT_STYLE", "styled")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Style != "styled" {
		t.Errorf("Output.Style = %q, want %q", cfg.Output.Style, "styled")
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{"ACCESS_TOKEN": "alt"}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Catalog.AccessToken != "alt" {
		t.Errorf("Catalog.AccessToken = %q, want %q", cfg.Catalog.AccessToken, "alt")
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{"OUTPUT_COLUMNS": " name, price ,,clause"}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	want := []string{"name", "price", "clause"}
	if !reflect.DeepEqual(cfg.Output.Columns, want) {
		t.Errorf("Output.Columns = %v, want %v", cfg.Output.Columns, want)
	}
}

func TestLoad_ReportsEveryBadValue(t *testing.T) {
	_, err := LoadFrom(env(map[string]string{
		"IMPORT_MAX_LINE_BYTES": "lots",
		"OUTPUT_SHOW_CLAUSE":    "maybe",
		"IMPORT_TIMEOUT":        "soon",
	}))
	if err == nil {
		t.Fatal("LoadFrom() expected error")
	}
	for _, name := range []string{"IMPORT_MAX_LINE_BYTES", "OUTPUT_SHOW_CLAUSE", "IMPORT_TIMEOUT"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}
}

func TestLoad_Required(t *testing.T) {
	var s struct {
		Token string `env:"TEST_TOKEN" required:"true"`
		Port  int8   `env:"TEST_PORT" default:"1"`
	}

	err := loadStruct(reflect.ValueOf(&s).Elem(), env(nil))
	if err == nil || !strings.Contains(err.Error(), "TEST_TOKEN") {
		t.Errorf("loadStruct() error = %v, want missing TEST_TOKEN", err)
	}

	err = loadStruct(reflect.ValueOf(&s).Elem(), env(map[string]string{"TEST_TOKEN": "x", "TEST_PORT": "300"}))
	if err == nil || !strings.Contains(err.Error(), "out of range") {
		t.Errorf("loadStruct() error = %v, want out of range", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		wantErr string
	}{
		{name: "bad wallpaper policy", vars: map[string]string{"WALLPAPER_DIMENSIONS": "stretched"}, wantErr: "WALLPAPER_DIMENSIONS"},
		{name: "bad output style", vars: map[string]string{"OUTPUT_STYLE": "fancy"}, wantErr: "OUTPUT_STYLE"},
		{name: "unknown column", vars: map[string]string{"OUTPUT_COLUMNS": "name,size"}, wantErr: `unknown column "size"`},
		{name: "bad log level", vars: map[string]string{"LOG_LEVEL": "verbose"}, wantErr: "LOG_LEVEL"},
		{name: "bad log format", vars: map[string]string{"LOG_FORMAT": "xml"}, wantErr: "LOG_FORMAT"},
		{name: "zero max line", vars: map[string]string{"IMPORT_MAX_LINE_BYTES": "0"}, wantErr: "IMPORT_MAX_LINE_BYTES"},
		{name: "negative width", vars: map[string]string{"WALLPAPER_DEFAULT_WIDTH": "-1"}, wantErr: "wallpaper default dimensions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFrom(env(tt.vars))
			if err == nil {
				t.Fatal("LoadFrom() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfigString_MasksToken(t *testing.T) {
	cfg, err := LoadFrom(env(map[string]string{"STOREFRONT_ACCESS_TOKEN": "super-secret"}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	s := cfg.String()
	if strings.Contains(s, "super-secret") {
		t.Errorf("String() leaks the access token: %s", s)
	}
	if !strings.Contains(s, "[MASKED]") {
		t.Errorf("String() = %s, want masked token", s)
	}
}

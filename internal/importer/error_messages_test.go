package importer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/JonMunkholm/storefront/internal/catalog"
	"github.com/JonMunkholm/storefront/internal/csvline"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "column count",
			err:         &ParseError{Msg: "malformed country row", File: "c.csv", LineNumber: 2, Err: &csvline.FieldCountError{Min: 3, Max: 3, Got: 2}},
			wantCode:    "PARSE001",
			wantMessage: "A line has too many or too few columns",
		},
		{
			name:        "invalid number",
			err:         &ParseError{Msg: "malformed content row", Err: fmt.Errorf("%w %q for rating", ErrInvalidNumber, "four")},
			wantCode:    "PARSE002",
			wantMessage: "A numeric column holds a non-numeric value",
		},
		{
			name:        "unknown content type",
			err:         &ParseError{Msg: "malformed query", Err: fmt.Errorf("%w %q", ErrUnknownContentType, "ebook")},
			wantCode:    "PARSE003",
			wantMessage: "The content type is not application, ringtone or wallpaper",
		},
		{
			name:        "line too long",
			err:         &ParseError{Msg: "line exceeds maximum length", Err: ErrLineTooLong},
			wantCode:    "PARSE004",
			wantMessage: "A line exceeds the maximum line size",
		},
		{
			name:        "missing file",
			err:         &ImportError{Msg: "cannot open file", File: "x.csv", Err: &fs.PathError{Op: "open", Path: "x.csv", Err: errors.New("no such file or directory")}},
			wantCode:    "IMP001",
			wantMessage: "The input file does not exist",
		},
		{
			name:        "permission denied",
			err:         errors.New("open x.csv: permission denied"),
			wantCode:    "IMP002",
			wantMessage: "The input file cannot be read",
		},
		{
			name:        "cancelled",
			err:         &ImportError{Msg: "import cancelled", Err: context.Canceled},
			wantCode:    "IMP004",
			wantMessage: "The import was interrupted",
		},
		{
			name:        "missing token",
			err:         &ImportError{Msg: "catalog rejected import", Err: catalog.ErrUnauthorized},
			wantCode:    "AUTH001",
			wantMessage: "Import requires an access token",
		},
		{
			name:        "not exist from os",
			err:         &ImportError{Msg: "cannot open file", Err: fs.ErrNotExist},
			wantCode:    "IMP001",
			wantMessage: "The input file does not exist",
		},
		{
			name:        "scanner token too long",
			err:         fmt.Errorf("read c.csv: %w", bufio.ErrTooLong),
			wantCode:    "PARSE004",
			wantMessage: "A line exceeds the maximum line size",
		},
		{
			name:        "deadline",
			err:         fmt.Errorf("import: %w", context.DeadlineExceeded),
			wantCode:    "IMP004",
			wantMessage: "The import was interrupted",
		},
		{
			name:        "directory",
			err:         errors.New("read /tmp: is a directory"),
			wantCode:    "IMP003",
			wantMessage: "The input path is a directory",
		},
		{
			name:        "unknown error uses default",
			err:         errors.New("something strange happened"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}

	got := FormatUserError(catalog.ErrUnauthorized)
	want := "Import requires an access token (Code: AUTH001). Set STOREFRONT_ACCESS_TOKEN or pass --token"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}
}

func TestIsUserFacing(t *testing.T) {
	if IsUserFacing(nil) {
		t.Error("nil should not be user facing")
	}
	if !IsUserFacing(ErrInvalidNumber) {
		t.Error("invalid number should be user facing")
	}
	if IsUserFacing(errors.New("boom")) {
		t.Error("unmatched error should not be user facing")
	}
}

func TestErrorFormat(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "file and line",
			err:  &ParseError{Msg: "malformed country row", File: "c.csv", LineNumber: 4, Err: errors.New("boom")},
			want: "parse error (c.csv:4): malformed country row: boom",
		},
		{
			name: "file only",
			err:  &ImportError{Msg: "cannot open file", File: "c.csv"},
			want: "import error (c.csv): cannot open file",
		},
		{
			name: "line only",
			err:  &ParseError{Msg: "malformed query", LineNumber: 2},
			want: "parse error (line 2): malformed query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

package importer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidNumber is wrapped by parse errors for non-numeric values in
	// numeric columns.
	ErrInvalidNumber = errors.New("invalid number")

	// ErrUnknownContentType is wrapped by parse errors for content rows and
	// queries naming a type that does not exist.
	ErrUnknownContentType = errors.New("unknown content type")

	// ErrLineTooLong is wrapped when a line exceeds the configured maximum.
	ErrLineTooLong = errors.New("line too long")
)

// ParseError reports malformed input: a wrong column count, a non-numeric
// value in a numeric column, an unknown content type or a bad query line.
type ParseError struct {
	Msg        string
	Line       string
	LineNumber int
	File       string
	Err        error
}

func (e *ParseError) Error() string {
	return formatError("parse error", e.Msg, e.File, e.LineNumber, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ImportError reports a failure that is not about the content of a line:
// the file cannot be opened or read, or the catalog refused the batch.
type ImportError struct {
	Msg        string
	Line       string
	LineNumber int
	File       string
	Err        error
}

func (e *ImportError) Error() string {
	return formatError("import error", e.Msg, e.File, e.LineNumber, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

func formatError(kind, msg, file string, lineNo int, cause error) string {
	var b strings.Builder
	b.WriteString(kind)
	switch {
	case file != "" && lineNo > 0:
		fmt.Fprintf(&b, " (%s:%d)", file, lineNo)
	case file != "":
		fmt.Fprintf(&b, " (%s)", file)
	case lineNo > 0:
		fmt.Fprintf(&b, " (line %d)", lineNo)
	}
	b.WriteString(": ")
	b.WriteString(msg)
	if cause != nil {
		b.WriteString(": ")
		b.WriteString(cause.Error())
	}
	return b.String()
}

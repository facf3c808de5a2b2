// Package csvline splits delimited catalog lines into fields.
//
// The catalog files are not RFC 4180 CSV: there is no quoting, and a literal
// separator inside a field is written with a leading backslash ("A\,B").
// A backslash directly before the separator keeps it inside the field. Once a
// line is split, every "\," (or "\,,,") in a field is collapsed to a single
// comma. The unescape step only ever restores commas, whatever separator was
// used, so "a\|b" split on '|' stays "a\|b".
//
// Rows are split on Comma and list cells on Pipe:
//
//	fields := csvline.Split(`BO,BOLIVIA\, PLURINATIONAL STATE OF,open`, csvline.Comma)
//	// fields[1] == "BOLIVIA, PLURINATIONAL STATE OF"
package csvline

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// Comma separates the columns of a row.
	Comma = ','
	// Pipe separates the items of a list column.
	Pipe = '|'
	// Escape protects a following separator from being treated as a boundary.
	Escape = '\\'
)

// escapedCommas matches a backslash followed by one or more commas.
var escapedCommas = regexp.MustCompile(`\\,+`)

// FieldCountError reports a line that split into an unexpected number of fields.
type FieldCountError struct {
	Min int
	Max int
	Got int
}

func (e *FieldCountError) Error() string {
	if e.Min == e.Max {
		return fmt.Sprintf("expected %d fields, found %d", e.Min, e.Got)
	}
	return fmt.Sprintf("expected %d to %d fields, found %d", e.Min, e.Max, e.Got)
}

// Split splits line on sep, ignoring separators preceded by a backslash,
// and unescapes commas in every resulting field.
// An empty line yields a single empty field.
func Split(line string, sep rune) []string {
	fields := make([]string, 0, strings.Count(line, string(sep))+1)

	start := 0
	prev := rune(0)
	for i, r := range line {
		if r == sep && prev != Escape {
			fields = append(fields, Unescape(line[start:i]))
			start = i + len(string(r))
		}
		prev = r
	}
	fields = append(fields, Unescape(line[start:]))

	return fields
}

// SplitExact splits line and fails with a *FieldCountError unless it
// produced exactly n fields.
func SplitExact(line string, sep rune, n int) ([]string, error) {
	return SplitRange(line, sep, n, n)
}

// SplitRange splits line and fails with a *FieldCountError unless the number
// of fields is within [min, max].
func SplitRange(line string, sep rune, min, max int) ([]string, error) {
	fields := Split(line, sep)
	if len(fields) < min || len(fields) > max {
		return nil, &FieldCountError{Min: min, Max: max, Got: len(fields)}
	}
	return fields, nil
}

// Unescape collapses every backslash followed by one or more commas into a
// single comma.
func Unescape(field string) string {
	if !strings.ContainsRune(field, Escape) {
		return field
	}
	return escapedCommas.ReplaceAllString(field, ",")
}

// SplitList splits a pipe-delimited list cell, trimming each item and
// dropping empty ones. A blank cell yields nil.
func SplitList(cell string) []string {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil
	}

	parts := Split(cell, Pipe)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

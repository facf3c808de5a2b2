package importer

// convert.go parses the numeric columns of content rows and queries.
//
// Cells are checked against a strict pattern before strconv sees them so
// that forms strconv would accept but the file format does not ("NaN",
// "Inf", hex, underscores) are rejected as invalid numbers.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex matches integers, decimals and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// integerRegex matches optionally signed integers.
var integerRegex = regexp.MustCompile(`^[+-]?\d+$`)

// parseInt parses an integer cell. column names the cell in errors.
func parseInt(s, column string) (int, error) {
	n, err := parseInt64(s, column)
	if err != nil {
		return 0, err
	}
	if int64(int(n)) != n {
		return 0, fmt.Errorf("%w %q for %s: out of range", ErrInvalidNumber, s, column)
	}
	return int(n), nil
}

func parseInt64(s, column string) (int64, error) {
	s = strings.TrimSpace(s)
	if !integerRegex.MatchString(s) {
		return 0, fmt.Errorf("%w %q for %s", ErrInvalidNumber, s, column)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q for %s: %w", ErrInvalidNumber, s, column, err)
	}
	return n, nil
}

// parseFloat parses a decimal cell. column names the cell in errors.
func parseFloat(s, column string) (float64, error) {
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return 0, fmt.Errorf("%w %q for %s", ErrInvalidNumber, s, column)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w %q for %s: %w", ErrInvalidNumber, s, column, err)
	}
	return f, nil
}

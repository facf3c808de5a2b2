package importer

// reader.go turns a byte stream into numbered lines for the importers.
//
// Input goes through two stages before it is split into lines:
//
//   - countingReader: tracks raw bytes read for the import summary
//   - unicode.BOMOverride: drops a leading byte order mark and replaces
//     invalid UTF-8 with U+FFFD
//
// Lines longer than the configured maximum stop the scan with ErrLineTooLong.

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultMaxLineBytes is the longest line a source accepts unless
// configured otherwise.
const DefaultMaxLineBytes = 1 << 20

const initialBufferSize = 64 * 1024

// LineSource yields the lines of one named input.
type LineSource interface {
	// Name identifies the input in error messages.
	Name() string
	// Scan advances to the next line and reports whether there is one.
	Scan() bool
	// Text returns the current line without its terminator.
	Text() string
	// LineNumber returns the 1-based number of the current line.
	LineNumber() int
	// Err returns the first read error, if any.
	Err() error
}

// Source is a LineSource over an io.Reader.
type Source struct {
	name    string
	counter *countingReader
	scanner *bufio.Scanner
	line    string
	lineNo  int
	err     error
}

// NewSource reads lines from r. maxLineBytes <= 0 selects
// DefaultMaxLineBytes.
func NewSource(name string, r io.Reader, maxLineBytes int) *Source {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}

	counter := &countingReader{reader: r}
	decoded := transform.NewReader(counter, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, min(initialBufferSize, maxLineBytes)), maxLineBytes)

	return &Source{
		name:    name,
		counter: counter,
		scanner: scanner,
	}
}

func (s *Source) Name() string { return s.name }

func (s *Source) Scan() bool {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil && s.err == nil {
			if errors.Is(err, bufio.ErrTooLong) {
				err = fmt.Errorf("%w: line %d", ErrLineTooLong, s.lineNo+1)
			}
			s.err = err
		}
		s.line = ""
		return false
	}
	s.lineNo++
	s.line = s.scanner.Text()
	return true
}

func (s *Source) Text() string { return s.line }

func (s *Source) LineNumber() int { return s.lineNo }

func (s *Source) Err() error { return s.err }

// BytesRead returns the number of raw bytes consumed so far.
func (s *Source) BytesRead() int64 { return s.counter.bytesRead }

// FileSource is a Source reading from a file on disk.
type FileSource struct {
	*Source
	file *os.File
}

// OpenFile opens path for line reading. The caller must Close it.
func OpenFile(path string, maxLineBytes int) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{
		Source: NewSource(path, f, maxLineBytes),
		file:   f,
	}, nil
}

func (s *FileSource) Close() error {
	return s.file.Close()
}

// countingReader wraps an io.Reader to track bytes read.
type countingReader struct {
	reader    io.Reader
	bytesRead int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.bytesRead += int64(n)
	return n, err
}

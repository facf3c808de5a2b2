// Package importer reads country, device and content files into a catalog
// and parses search query lines.
//
// Every file is read completely before anything is handed to the catalog.
// The first malformed line aborts the file with a *ParseError carrying the
// line text, its number and the file name, and nothing from that file is
// imported. Well-formed records that fail entity validation (a rating of 9,
// an empty name) are not errors here: the catalog skips them and counts them
// in its ImportResult.
//
// Blank lines and lines starting with the comment prefix are ignored.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/JonMunkholm/storefront/internal/catalog"
	"github.com/JonMunkholm/storefront/internal/csvline"
	"github.com/JonMunkholm/storefront/internal/logging"
	"github.com/JonMunkholm/storefront/internal/model"
)

// Column layout of the entity files.
const (
	countryColumns = 3
	deviceColumns  = 3

	contentMinColumns = 12
	contentMaxColumns = 16
)

// Content row column indexes.
const (
	colType = iota
	colUnused
	colName
	colDescription
	colAuthor
	colRating
	colCategories
	colCountries
	colDevices
	colPrice
	colLanguages
	colImageURL
	colFileSize
	colDuration
	colPixelWidth
	colPixelHeight
)

// DefaultCommentPrefix marks lines that are skipped.
const DefaultCommentPrefix = "#"

// Importer parses entity files and hands the records to a catalog.
type Importer struct {
	cat           *catalog.Catalog
	token         string
	commentPrefix string
	maxLineBytes  int
	wallpaper     WallpaperDimensions
	logger        *slog.Logger
}

// Option configures an Importer.
type Option func(*Importer)

// WithCommentPrefix sets the prefix of ignored lines. An empty prefix turns
// comment handling off.
func WithCommentPrefix(prefix string) Option {
	return func(im *Importer) {
		im.commentPrefix = prefix
	}
}

// WithMaxLineBytes caps the length of a single input line.
func WithMaxLineBytes(n int) Option {
	return func(im *Importer) {
		if n > 0 {
			im.maxLineBytes = n
		}
	}
}

// WithWallpaperDimensions sets how wallpaper pixel dimensions are chosen.
func WithWallpaperDimensions(d WallpaperDimensions) Option {
	return func(im *Importer) {
		im.wallpaper = d
	}
}

// WithLogger sets the logger for import progress.
func WithLogger(l *slog.Logger) Option {
	return func(im *Importer) {
		if l != nil {
			im.logger = l
		}
	}
}

// New creates an importer that writes to cat using token for the
// restricted import operations.
func New(cat *catalog.Catalog, token string, opts ...Option) *Importer {
	im := &Importer{
		cat:           cat,
		token:         token,
		commentPrefix: DefaultCommentPrefix,
		maxLineBytes:  DefaultMaxLineBytes,
		wallpaper:     DefaultWallpaperDimensions(),
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportCountryFile imports the country file at path.
func (im *Importer) ImportCountryFile(ctx context.Context, path string) (catalog.ImportResult, error) {
	return importFile(ctx, im, path, im.ImportCountries)
}

// ImportDeviceFile imports the device file at path.
func (im *Importer) ImportDeviceFile(ctx context.Context, path string) (catalog.ImportResult, error) {
	return importFile(ctx, im, path, im.ImportDevices)
}

// ImportContentFile imports the content file at path.
func (im *Importer) ImportContentFile(ctx context.Context, path string) (catalog.ImportResult, error) {
	return importFile(ctx, im, path, im.ImportContent)
}

// Open opens path with the importer's line size limit.
func (im *Importer) Open(path string) (*FileSource, error) {
	return OpenFile(path, im.maxLineBytes)
}

func importFile(ctx context.Context, im *Importer, path string, run func(context.Context, LineSource) (catalog.ImportResult, error)) (catalog.ImportResult, error) {
	src, err := im.Open(path)
	if err != nil {
		return catalog.ImportResult{}, &ImportError{Msg: "cannot open file", File: path, Err: err}
	}
	defer src.Close()

	res, err := run(ctx, src)
	if err != nil {
		return res, err
	}

	im.logger.Info("file imported",
		"batch_id", res.BatchID,
		"file", path,
		"size", humanize.Bytes(uint64(src.BytesRead())),
		"lines", src.LineNumber(),
	)
	return res, nil
}

// ImportCountries reads "code,name,export_status" rows from src.
func (im *Importer) ImportCountries(ctx context.Context, src LineSource) (catalog.ImportResult, error) {
	ctx = withBatch(ctx)
	countries, err := collect(ctx, im, src, "malformed country row", parseCountry)
	if err != nil {
		return catalog.ImportResult{}, err
	}
	res, err := im.cat.ImportCountries(ctx, im.token, countries)
	return res, im.catalogError(src, err)
}

// ImportDevices reads "id,name,manufacturer" rows from src.
func (im *Importer) ImportDevices(ctx context.Context, src LineSource) (catalog.ImportResult, error) {
	ctx = withBatch(ctx)
	devices, err := collect(ctx, im, src, "malformed device row", parseDevice)
	if err != nil {
		return catalog.ImportResult{}, err
	}
	res, err := im.cat.ImportDevices(ctx, im.token, devices)
	return res, im.catalogError(src, err)
}

// ImportContent reads content rows from src. Country codes and device ids
// are resolved against the catalog, so countries and devices should be
// imported first; codes that do not resolve are dropped.
func (im *Importer) ImportContent(ctx context.Context, src LineSource) (catalog.ImportResult, error) {
	ctx = withBatch(ctx)
	items, err := collect(ctx, im, src, "malformed content row", im.parseContent)
	if err != nil {
		return catalog.ImportResult{}, err
	}
	res, err := im.cat.ImportContent(ctx, im.token, items)
	return res, im.catalogError(src, err)
}

func (im *Importer) catalogError(src LineSource, err error) error {
	if err == nil {
		return nil
	}
	return &ImportError{Msg: "catalog rejected import", File: src.Name(), Err: err}
}

func withBatch(ctx context.Context) context.Context {
	if logging.BatchID(ctx) != "" {
		return ctx
	}
	return logging.WithBatch(ctx, uuid.NewString())
}

// EachRecord calls fn for every line of src that is neither blank nor a
// comment. A *ParseError returned by fn is completed with the file name and
// line number; any other error is returned unchanged. Read failures are
// reported as *ImportError, or *ParseError for over-long lines.
func (im *Importer) EachRecord(ctx context.Context, src LineSource, fn func(line string) error) error {
	for src.Scan() {
		if err := ctx.Err(); err != nil {
			return &ImportError{Msg: "import cancelled", File: src.Name(), LineNumber: src.LineNumber(), Err: err}
		}

		line := src.Text()
		if im.skip(line) {
			continue
		}

		if err := fn(line); err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				if pe.File == "" {
					pe.File = src.Name()
				}
				if pe.LineNumber == 0 {
					pe.LineNumber = src.LineNumber()
				}
				if pe.Line == "" {
					pe.Line = line
				}
			}
			return err
		}
	}

	if err := src.Err(); err != nil {
		if errors.Is(err, ErrLineTooLong) {
			return &ParseError{Msg: "line exceeds maximum length", File: src.Name(), LineNumber: src.LineNumber() + 1, Err: err}
		}
		return &ImportError{Msg: "read failed", File: src.Name(), LineNumber: src.LineNumber(), Err: err}
	}
	return nil
}

// skip reports whether line is blank or a comment. Only a prefix at the
// very start of the line marks a comment.
func (im *Importer) skip(line string) bool {
	if strings.TrimSpace(line) == "" {
		return true
	}
	return im.commentPrefix != "" && strings.HasPrefix(line, im.commentPrefix)
}

// collect parses every record of src, stopping at the first malformed one.
func collect[T any](ctx context.Context, im *Importer, src LineSource, msg string, parse func(string) (T, error)) ([]T, error) {
	logger := logging.For(ctx, im.logger, "file", src.Name())
	logger.Debug("reading records")

	var records []T
	err := im.EachRecord(ctx, src, func(line string) error {
		rec, err := parse(line)
		if err != nil {
			return &ParseError{Msg: msg, Line: line, Err: err}
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		logger.Warn("import aborted", "error", err)
		return nil, err
	}
	return records, nil
}

func parseCountry(line string) (*model.Country, error) {
	f, err := csvline.SplitExact(line, csvline.Comma, countryColumns)
	if err != nil {
		return nil, err
	}
	return model.NewCountry(f[0], f[1], f[2]), nil
}

func parseDevice(line string) (*model.Device, error) {
	f, err := csvline.SplitExact(line, csvline.Comma, deviceColumns)
	if err != nil {
		return nil, err
	}
	return model.NewDevice(f[0], f[1], f[2]), nil
}

func (im *Importer) parseContent(line string) (*model.Content, error) {
	f, err := csvline.SplitRange(line, csvline.Comma, contentMinColumns, contentMaxColumns)
	if err != nil {
		return nil, err
	}

	t, ok := model.ParseContentType(f[colType])
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownContentType, strings.TrimSpace(f[colType]))
	}

	item := &model.Content{
		Type:        t,
		Name:        strings.TrimSpace(f[colName]),
		Description: strings.TrimSpace(f[colDescription]),
		Author:      strings.TrimSpace(f[colAuthor]),
		Categories:  csvline.SplitList(f[colCategories]),
		Languages:   csvline.SplitList(f[colLanguages]),
		Countries:   im.resolveCountries(csvline.SplitList(f[colCountries])),
		Devices:     im.resolveDevices(csvline.SplitList(f[colDevices])),
		ImageURL:    strings.TrimSpace(f[colImageURL]),
	}

	if s := strings.TrimSpace(f[colRating]); s != "" {
		if item.Rating, err = parseInt(s, "rating"); err != nil {
			return nil, err
		}
	}
	if s := strings.TrimSpace(f[colPrice]); s != "" {
		if item.Price, err = parseFloat(s, "price"); err != nil {
			return nil, err
		}
	}

	if s := cell(f, colFileSize); s != "" {
		size, err := parseInt64(s, "filesize")
		if err != nil {
			return nil, err
		}
		if t == model.TypeApplication {
			item.Application.FileSizeBytes = size
		}
	}
	if s := cell(f, colDuration); s != "" {
		d, err := parseFloat(s, "duration")
		if err != nil {
			return nil, err
		}
		if t == model.TypeRingtone {
			item.Ringtone.DurationSeconds = d
		}
	}

	if t == model.TypeWallpaper {
		w, h, err := im.wallpaper.resolve(cell(f, colPixelWidth), cell(f, colPixelHeight))
		if err != nil {
			return nil, err
		}
		item.Wallpaper = model.Wallpaper{PixelWidth: w, PixelHeight: h}
	} else if _, _, err := parseDimensions(cell(f, colPixelWidth), cell(f, colPixelHeight)); err != nil {
		return nil, err
	}

	return item, nil
}

// cell returns the trimmed field at i, or "" past the end of the row.
func cell(f []string, i int) string {
	if i >= len(f) {
		return ""
	}
	return strings.TrimSpace(f[i])
}

// resolveCountries maps codes to catalog countries, dropping unknown ones.
// The result is nil only when codes is nil.
func (im *Importer) resolveCountries(codes []string) []*model.Country {
	if codes == nil {
		return nil
	}
	out := make([]*model.Country, 0, len(codes))
	for _, code := range codes {
		if c, ok := im.cat.CountryByCode(code); ok {
			out = append(out, c)
		} else {
			im.logger.Debug("dropping unknown country", "code", code)
		}
	}
	return out
}

// resolveDevices maps ids to catalog devices, dropping unknown ones.
// The result is nil only when ids is nil.
func (im *Importer) resolveDevices(ids []string) []*model.Device {
	if ids == nil {
		return nil
	}
	out := make([]*model.Device, 0, len(ids))
	for _, id := range ids {
		if d, ok := im.cat.DeviceByID(id); ok {
			out = append(out, d)
		} else {
			im.logger.Debug("dropping unknown device", "id", id)
		}
	}
	return out
}

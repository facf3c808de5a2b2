// Package search runs query files against a loaded catalog.
package search

import (
	"context"
	"log/slog"
	"time"

	"github.com/JonMunkholm/storefront/internal/catalog"
	"github.com/JonMunkholm/storefront/internal/importer"
	"github.com/JonMunkholm/storefront/internal/logging"
	"github.com/JonMunkholm/storefront/internal/model"
)

// Result is the outcome of one query.
type Result struct {
	// LineNumber is the query's line in its file, or its position among
	// ad hoc queries.
	LineNumber int
	Raw        string
	Criteria   model.Criteria
	Matches    []*model.Content
}

// Runner parses queries with an importer and evaluates them on a catalog.
type Runner struct {
	cat    *catalog.Catalog
	im     *importer.Importer
	logger *slog.Logger
}

// NewRunner creates a runner. Query parsing resolves country and device
// codes through im, so im should write to cat.
func NewRunner(cat *catalog.Catalog, im *importer.Importer, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cat: cat, im: im, logger: logger}
}

// Query parses and runs a single query line.
func (r *Runner) Query(line string) (Result, error) {
	c, err := r.im.ParseQuery(line)
	if err != nil {
		return Result{}, err
	}
	return r.run(c), nil
}

// RunFile runs every query in the file at path, calling fn with each result
// in file order. A malformed query stops the run with a *importer.ParseError
// naming the file and line; results already delivered stand.
func (r *Runner) RunFile(ctx context.Context, path string, fn func(Result) error) error {
	src, err := r.im.Open(path)
	if err != nil {
		return &importer.ImportError{Msg: "cannot open query file", File: path, Err: err}
	}
	defer src.Close()

	return r.Run(ctx, src, fn)
}

// Run runs every query of src. Blank and comment lines are skipped the same
// way the importer skips them.
func (r *Runner) Run(ctx context.Context, src importer.LineSource, fn func(Result) error) error {
	logger := logging.For(ctx, r.logger, "file", src.Name())
	start := time.Now()
	queries := 0

	err := r.im.EachRecord(ctx, src, func(line string) error {
		res, err := r.Query(line)
		if err != nil {
			return err
		}
		res.LineNumber = src.LineNumber()
		queries++
		return fn(res)
	})
	if err != nil {
		logger.Warn("query run aborted", "queries", queries, "error", err)
		return err
	}

	logger.Info("queries completed", "queries", queries, "duration", time.Since(start))
	return nil
}

func (r *Runner) run(c model.Criteria) Result {
	matches := r.cat.SearchContent(c)
	r.logger.Debug("query evaluated", "criteria", c.String(), "matches", len(matches))
	return Result{
		Raw:      c.Raw,
		Criteria: c,
		Matches:  matches,
	}
}

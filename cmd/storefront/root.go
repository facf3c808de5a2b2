package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/storefront/internal/catalog"
	"github.com/JonMunkholm/storefront/internal/config"
	"github.com/JonMunkholm/storefront/internal/importer"
	"github.com/JonMunkholm/storefront/internal/logging"
	"github.com/JonMunkholm/storefront/internal/search"
)

// app carries what every command needs once flags and config are resolved.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	out    io.Writer
	errOut io.Writer

	envFile    string
	token      string
	wallpaper  string
	style      string
	showClause bool
	logLevel   string
	logFormat  string
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Load a storefront catalog and search its content",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env-file", "", "load environment variables from this file (default: .env if present)")
	pf.StringVar(&a.token, "token", "", "catalog access token (overrides STOREFRONT_ACCESS_TOKEN)")
	pf.StringVar(&a.wallpaper, "wallpaper-dimensions", "", "wallpaper dimension policy: fixed or parsed")
	pf.StringVar(&a.style, "style", "", "output style: plain or styled")
	pf.BoolVar(&a.showClause, "show-clause", false, "show which clause matched each item")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(newRunCmd(a), newSearchCmd(a), newSummaryCmd(a))
	return root
}

// setup loads .env, the config and flag overrides, then configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	if a.envFile != "" {
		if err := godotenv.Load(a.envFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("token") {
		cfg.Catalog.AccessToken = a.token
	}
	if flags.Changed("wallpaper-dimensions") {
		cfg.Import.WallpaperDimensions = a.wallpaper
	}
	if flags.Changed("style") {
		cfg.Output.Style = a.style
	}
	if flags.Changed("show-clause") {
		cfg.Output.ShowClause = a.showClause
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	a.cfg = cfg
	a.logger = logging.Setup(a.errOut, cfg.Logging.Level, cfg.Logging.Format)
	a.logger.Debug("configuration loaded", "config", cfg.String())
	return nil
}

// context applies the configured run timeout to the command context.
func (a *app) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if a.cfg.Import.Timeout > 0 {
		return context.WithTimeout(ctx, a.cfg.Import.Timeout)
	}
	return context.WithCancel(ctx)
}

func (a *app) newImporter(cat *catalog.Catalog) (*importer.Importer, error) {
	policy, err := importer.ParseWallpaperPolicy(a.cfg.Import.WallpaperDimensions)
	if err != nil {
		return nil, err
	}
	return importer.New(cat, a.cfg.Catalog.AccessToken,
		importer.WithLogger(a.logger),
		importer.WithCommentPrefix(a.cfg.Import.CommentPrefix),
		importer.WithMaxLineBytes(a.cfg.Import.MaxLineBytes),
		importer.WithWallpaperDimensions(importer.WallpaperDimensions{
			Policy: policy,
			Width:  a.cfg.Import.WallpaperWidth,
			Height: a.cfg.Import.WallpaperHeight,
		}),
	), nil
}

// load builds a catalog from the three entity files, in dependency order.
func (a *app) load(ctx context.Context, countries, devices, content string) (*catalog.Catalog, *importer.Importer, []catalog.ImportResult, error) {
	cat := catalog.New(catalog.WithLogger(a.logger))
	im, err := a.newImporter(cat)
	if err != nil {
		return nil, nil, nil, err
	}

	steps := []struct {
		path string
		run  func(context.Context, string) (catalog.ImportResult, error)
	}{
		{countries, im.ImportCountryFile},
		{devices, im.ImportDeviceFile},
		{content, im.ImportContentFile},
	}

	results := make([]catalog.ImportResult, 0, len(steps))
	for _, step := range steps {
		res, err := step.run(ctx, step.path)
		if err != nil {
			return nil, nil, nil, err
		}
		results = append(results, res)
	}
	return cat, im, results, nil
}

func (a *app) renderer() *renderer {
	return newRenderer(a.out, renderOptions{
		Styled:     strings.EqualFold(a.cfg.Output.Style, "styled"),
		ShowClause: a.cfg.Output.ShowClause,
		Columns:    a.cfg.Output.Columns,
	})
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <countries> <devices> <content> <queries>",
		Short: "Import the catalog files and run every query in the query file",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			cat, im, _, err := a.load(ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}

			r := a.renderer()
			return search.NewRunner(cat, im, a.logger).RunFile(ctx, args[3], r.Result)
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var queries []string

	cmd := &cobra.Command{
		Use:   "search <countries> <devices> <content> -q <query>...",
		Short: "Import the catalog files and run the queries given on the command line",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(queries) == 0 {
				return errors.New("at least one --query is required")
			}

			ctx, cancel := a.context(cmd)
			defer cancel()

			cat, im, _, err := a.load(ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}

			runner := search.NewRunner(cat, im, a.logger)
			r := a.renderer()
			for i, q := range queries {
				res, err := runner.Query(q)
				if err != nil {
					var pe *importer.ParseError
					if errors.As(err, &pe) {
						pe.File = "--query"
						pe.LineNumber = i + 1
					}
					return err
				}
				res.LineNumber = i + 1
				if err := r.Result(res); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&queries, "query", "q", nil,
		"query line: categories,text,min_rating,max_price,languages,countries,devices,content_types")
	return cmd
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <countries> <devices> <content>",
		Short: "Import the catalog files and print what was loaded",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			cat, _, results, err := a.load(ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}

			return a.renderer().Summary(cat, results)
		},
	}
}

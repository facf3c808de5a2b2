package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/JonMunkholm/storefront/internal/catalog"
	"github.com/JonMunkholm/storefront/internal/matcher"
	"github.com/JonMunkholm/storefront/internal/model"
	"github.com/JonMunkholm/storefront/internal/search"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5A9CF7"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

type renderOptions struct {
	Styled     bool
	ShowClause bool
	Columns    []string
}

// renderer writes query results and catalog summaries as tables.
type renderer struct {
	w    io.Writer
	opts renderOptions
}

func newRenderer(w io.Writer, opts renderOptions) *renderer {
	if len(opts.Columns) == 0 {
		opts.Columns = []string{"type", "name", "author", "rating", "price", "detail"}
	}
	if opts.ShowClause && !contains(opts.Columns, "clause") {
		opts.Columns = append(append([]string(nil), opts.Columns...), "clause")
	}
	return &renderer{w: w, opts: opts}
}

// Result prints one query with its matches.
func (r *renderer) Result(res search.Result) error {
	title := fmt.Sprintf("CONTENT SEARCH QUERY (line %d): %s", res.LineNumber, res.Raw)
	fmt.Fprintln(r.w, r.title(title))
	fmt.Fprintln(r.w, r.muted(res.Criteria.String()))

	n := len(res.Matches)
	fmt.Fprintf(r.w, "%s %s\n", humanize.Comma(int64(n)), plural(n, "match", "matches"))
	if n == 0 {
		_, err := fmt.Fprintln(r.w)
		return err
	}

	headers := make([]string, len(r.opts.Columns))
	for i, col := range r.opts.Columns {
		headers[i] = strings.ToUpper(col)
	}
	rows := make([][]string, 0, n)
	for _, item := range res.Matches {
		row := make([]string, len(r.opts.Columns))
		for i, col := range r.opts.Columns {
			row[i] = cellValue(col, item, &res.Criteria)
		}
		rows = append(rows, row)
	}

	_, err := fmt.Fprintln(r.w, r.table(headers, rows))
	fmt.Fprintln(r.w)
	return err
}

// Summary prints the import results and catalog contents.
func (r *renderer) Summary(cat *catalog.Catalog, results []catalog.ImportResult) error {
	fmt.Fprintln(r.w, r.title("IMPORTS"))
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		rows = append(rows, []string{
			string(res.Kind),
			humanize.Comma(int64(res.Total)),
			humanize.Comma(int64(res.Inserted)),
			humanize.Comma(int64(res.Duplicates)),
			humanize.Comma(int64(res.Invalid)),
			res.BatchID,
		})
	}
	fmt.Fprintln(r.w, r.table([]string{"KIND", "ROWS", "INSERTED", "DUPLICATES", "INVALID", "BATCH"}, rows))

	fmt.Fprintln(r.w, r.title("CATALOG"))
	counts := [][]string{
		{"countries", humanize.Comma(int64(len(cat.Countries())))},
		{"devices", humanize.Comma(int64(len(cat.Devices())))},
	}
	for _, t := range model.AllContentTypes() {
		counts = append(counts, []string{
			strings.ToLower(t.Label()) + "s",
			humanize.Comma(int64(len(cat.ContentOfType(t)))),
		})
	}
	counts = append(counts, []string{"content", humanize.Comma(int64(cat.ContentCount()))})

	_, err := fmt.Fprintln(r.w, r.table([]string{"ENTITY", "COUNT"}, counts))
	return err
}

func (r *renderer) table(headers []string, rows [][]string) string {
	t := table.New().
		Headers(headers...).
		Rows(rows...)

	if r.opts.Styled {
		return t.Border(lipgloss.RoundedBorder()).
			BorderStyle(borderStyle).
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}
				return cellStyle
			}).
			String()
	}

	return t.Border(lipgloss.ASCIIBorder()).
		StyleFunc(func(_, _ int) lipgloss.Style { return cellStyle }).
		String()
}

func (r *renderer) title(s string) string {
	if r.opts.Styled {
		return titleStyle.Render(s)
	}
	return s
}

func (r *renderer) muted(s string) string {
	if r.opts.Styled {
		return mutedStyle.Render(s)
	}
	return s
}

func cellValue(col string, item *model.Content, c *model.Criteria) string {
	switch strings.ToLower(col) {
	case "type":
		return item.Type.Label()
	case "name":
		return item.Name
	case "author":
		return item.Author
	case "rating":
		return strconv.Itoa(item.Rating)
	case "price":
		return fmt.Sprintf("%.2f", item.Price)
	case "categories":
		return strings.Join(item.Categories, "|")
	case "detail":
		return detail(item)
	case "clause":
		clause, _ := matcher.Match(item, c)
		return clause.String()
	default:
		return ""
	}
}

// detail renders the variant-specific attribute of an item.
func detail(item *model.Content) string {
	switch item.Type {
	case model.TypeApplication:
		return humanize.Bytes(uint64(max(item.Application.FileSizeBytes, 0)))
	case model.TypeRingtone:
		return strconv.FormatFloat(item.Ringtone.DurationSeconds, 'f', -1, 64) + "s"
	case model.TypeWallpaper:
		return fmt.Sprintf("%dx%d", item.Wallpaper.PixelWidth, item.Wallpaper.PixelHeight)
	default:
		return ""
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}

package importer

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/storefront/internal/csvline"
	"github.com/JonMunkholm/storefront/internal/model"
)

const queryColumns = 8

// Query line column indexes.
const (
	qCategories = iota
	qText
	qMinRating
	qMaxPrice
	qLanguages
	qCountries
	qDevices
	qContentTypes
)

// ParseQuery parses one query line:
//
//	categories,text,min_rating,max_price,languages,countries,devices,content_types
//
// All eight columns must be present and any of them may be blank. List
// columns are pipe-delimited. Country codes and device ids are resolved
// against the catalog; when none of them resolve the criterion stays active
// with an empty set. Blank content types mean all types.
//
// Errors are *ParseError without file position; EachRecord fills it in.
func (im *Importer) ParseQuery(line string) (model.Criteria, error) {
	c, err := im.parseQuery(line)
	if err != nil {
		return model.Criteria{}, &ParseError{Msg: "malformed query", Line: line, Err: err}
	}
	return c, nil
}

func (im *Importer) parseQuery(line string) (model.Criteria, error) {
	c := model.NewCriteria()
	c.Raw = line

	f, err := csvline.SplitExact(line, csvline.Comma, queryColumns)
	if err != nil {
		return c, err
	}

	c.Categories = csvline.SplitList(f[qCategories])
	c.Text = strings.TrimSpace(f[qText])
	c.Languages = csvline.SplitList(f[qLanguages])
	c.Countries = im.resolveCountries(csvline.SplitList(f[qCountries]))
	c.Devices = im.resolveDevices(csvline.SplitList(f[qDevices]))

	if s := strings.TrimSpace(f[qMinRating]); s != "" {
		if c.MinRating, err = parseInt(s, "min_rating"); err != nil {
			return c, err
		}
	}
	if s := strings.TrimSpace(f[qMaxPrice]); s != "" {
		if c.MaxPrice, err = parseFloat(s, "max_price"); err != nil {
			return c, err
		}
	}

	if names := csvline.SplitList(f[qContentTypes]); len(names) > 0 {
		c.ContentTypes = make([]model.ContentType, 0, len(names))
		for _, name := range names {
			t, ok := model.ParseContentType(name)
			if !ok {
				return c, fmt.Errorf("%w %q", ErrUnknownContentType, name)
			}
			c.ContentTypes = append(c.ContentTypes, t)
		}
	}

	return c, nil
}

package model

import (
	"fmt"
	"math"
	"strings"
)

// Criteria is one search request.
//
// A nil slice means the criterion was not supplied. A non-nil empty slice
// means it was supplied but nothing in it resolved (for example a country
// code unknown to the catalog); such a criterion is still evaluated.
type Criteria struct {
	Categories   []string
	Text         string
	MinRating    int
	MaxPrice     float64
	Languages    []string
	Countries    []*Country
	Devices      []*Device
	ContentTypes []ContentType

	// Raw is the query line the criteria were parsed from, if any.
	Raw string
}

// NewCriteria returns criteria with every attribute unset: no minimum
// rating, an unbounded price and all content types.
func NewCriteria() Criteria {
	return Criteria{
		MinRating:    0,
		MaxPrice:     math.MaxFloat64,
		ContentTypes: AllContentTypes(),
	}
}

// HasContentType reports whether t is one of the requested types.
func (c Criteria) HasContentType(t ContentType) bool {
	for _, ct := range c.ContentTypes {
		if ct == t {
			return true
		}
	}
	return false
}

// String renders the criteria for display.
func (c Criteria) String() string {
	var b strings.Builder
	b.WriteString("Criteria{")
	fmt.Fprintf(&b, "categories: %s, ", formatSet(c.Categories))
	fmt.Fprintf(&b, "text: %q, ", c.Text)
	fmt.Fprintf(&b, "min_rating: %d, ", c.MinRating)
	if c.MaxPrice == math.MaxFloat64 {
		b.WriteString("max_price: any, ")
	} else {
		fmt.Fprintf(&b, "max_price: %g, ", c.MaxPrice)
	}
	fmt.Fprintf(&b, "languages: %s, ", formatSet(c.Languages))

	var codes []string
	if c.Countries != nil {
		codes = make([]string, 0, len(c.Countries))
		for _, ctry := range c.Countries {
			codes = append(codes, ctry.Code)
		}
	}
	fmt.Fprintf(&b, "countries: %s, ", formatSet(codes))

	var ids []string
	if c.Devices != nil {
		ids = make([]string, 0, len(c.Devices))
		for _, dev := range c.Devices {
			ids = append(ids, dev.ID)
		}
	}
	fmt.Fprintf(&b, "devices: %s, ", formatSet(ids))

	types := make([]string, len(c.ContentTypes))
	for i, t := range c.ContentTypes {
		types[i] = string(t)
	}
	fmt.Fprintf(&b, "types: %s}", formatSet(types))
	return b.String()
}

func formatSet(items []string) string {
	if items == nil {
		return "any"
	}
	return "[" + strings.Join(items, "|") + "]"
}

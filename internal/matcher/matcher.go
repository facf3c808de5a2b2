// Package matcher decides whether a content item satisfies search criteria.
//
// Clauses are evaluated in a fixed order and combined with OR. A clause
// that is active and true matches immediately; a clause that is active and
// false, or inactive, moves on to the next one. Rating and price are always
// active, and the content type clause is true for any typed item whenever
// the criteria keep their default of all types, so an item is rejected only
// when every clause fails.
package matcher

import (
	"github.com/JonMunkholm/storefront/internal/model"
)

// Clause identifies one criterion of the match.
type Clause int

const (
	ClauseNone Clause = iota
	ClauseCategory
	ClauseDevice
	ClauseCountry
	ClauseLanguage
	ClauseContentType
	ClauseText
	ClauseRating
	ClausePrice
)

func (c Clause) String() string {
	switch c {
	case ClauseCategory:
		return "category"
	case ClauseDevice:
		return "device"
	case ClauseCountry:
		return "country"
	case ClauseLanguage:
		return "language"
	case ClauseContentType:
		return "content_type"
	case ClauseText:
		return "text"
	case ClauseRating:
		return "rating"
	case ClausePrice:
		return "price"
	default:
		return "none"
	}
}

// clause reports whether it applies to the pair and, if so, whether it holds.
type clause struct {
	id   Clause
	eval func(item *model.Content, c *model.Criteria) (active, ok bool)
}

// clauses is the evaluation order.
var clauses = []clause{
	{ClauseCategory, func(item *model.Content, c *model.Criteria) (bool, bool) {
		return c.Categories != nil, intersects(item.Categories, c.Categories)
	}},
	{ClauseDevice, func(item *model.Content, c *model.Criteria) (bool, bool) {
		return c.Devices != nil, intersectsBy(item.Devices, c.Devices, (*model.Device).Key)
	}},
	{ClauseCountry, func(item *model.Content, c *model.Criteria) (bool, bool) {
		return c.Countries != nil, intersectsBy(item.Countries, c.Countries, (*model.Country).Key)
	}},
	{ClauseLanguage, func(item *model.Content, c *model.Criteria) (bool, bool) {
		return c.Languages != nil, intersects(item.Languages, c.Languages)
	}},
	{ClauseContentType, func(item *model.Content, c *model.Criteria) (bool, bool) {
		return item.Type != "", c.HasContentType(item.Type)
	}},
	{ClauseText, func(item *model.Content, c *model.Criteria) (bool, bool) {
		if c.Text == "" {
			return false, false
		}
		return true, model.ContainsFold(item.Name, c.Text) ||
			model.ContainsFold(item.Description, c.Text) ||
			model.ContainsFold(item.Author, c.Text)
	}},
	{ClauseRating, func(item *model.Content, c *model.Criteria) (bool, bool) {
		return true, item.Rating >= c.MinRating && item.Rating >= 1
	}},
	{ClausePrice, func(item *model.Content, c *model.Criteria) (bool, bool) {
		return true, c.MaxPrice >= item.Price
	}},
}

// Match evaluates item against c and returns the first clause that matched.
func Match(item *model.Content, c *model.Criteria) (Clause, bool) {
	if item == nil || c == nil {
		return ClauseNone, false
	}
	for _, cl := range clauses {
		if active, ok := cl.eval(item, c); active && ok {
			return cl.id, true
		}
	}
	return ClauseNone, false
}

// Matches reports whether item satisfies c.
func Matches(item *model.Content, c *model.Criteria) bool {
	_, ok := Match(item, c)
	return ok
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(b))
	for _, s := range b {
		set[s] = struct{}{}
	}
	for _, s := range a {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}

func intersectsBy[T any](a, b []*T, key func(*T) string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]struct{}, len(b))
	for _, ref := range b {
		set[key(ref)] = struct{}{}
	}
	for _, ref := range a {
		if _, ok := set[key(ref)]; ok {
			return true
		}
	}
	return false
}

// Package catalog holds the deduplicated set of countries, devices and
// content items loaded into the storefront, and runs content searches
// against it.
//
// A Catalog is created explicitly with New and passed to whatever needs it;
// there is no process-wide instance. Imports are best effort: each element is
// validated and inserted on its own, and invalid or duplicate elements are
// skipped without failing the batch.
//
// # Identity
//
// Countries are keyed by code and devices by id, both case-insensitively.
// Content is keyed by value: importing a field-identical item twice keeps
// one copy.
//
// # Concurrency
//
// The intended use is to import everything and then search. The catalog
// nevertheless guards its state with a RWMutex so concurrent readers and a
// writer never race. Stored items are never modified after insertion:
// content imports normalize copies, so feeding AllContent back into
// ImportContent is safe while searches run.
package catalog

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/storefront/internal/logging"
	"github.com/JonMunkholm/storefront/internal/matcher"
	"github.com/JonMunkholm/storefront/internal/model"
)

// ErrUnauthorized is returned by the import operations when no access token
// was supplied.
var ErrUnauthorized = errors.New("catalog: access token required")

// Kind names the entity kind of an import.
type Kind string

const (
	KindCountry Kind = "country"
	KindDevice  Kind = "device"
	KindContent Kind = "content"
)

// ImportResult summarizes one import call.
type ImportResult struct {
	BatchID    string
	Kind       Kind
	Total      int
	Inserted   int
	Duplicates int
	Invalid    int
	Duration   time.Duration
}

// Skipped returns the number of elements that were not inserted.
func (r ImportResult) Skipped() int {
	return r.Duplicates + r.Invalid
}

// Catalog is the in-memory product catalog.
type Catalog struct {
	mu        sync.RWMutex
	countries *entitySet[*model.Country]
	devices   *entitySet[*model.Device]
	content   *entitySet[*model.Content]

	logger *slog.Logger
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets the logger used for import summaries.
func WithLogger(l *slog.Logger) Option {
	return func(c *Catalog) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty catalog.
func New(opts ...Option) *Catalog {
	c := &Catalog{
		countries: newEntitySet[*model.Country](),
		devices:   newEntitySet[*model.Device](),
		content:   newEntitySet[*model.Content](),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ValidateAccessToken reports whether token grants access to the restricted
// import operations. Any non-empty token is accepted.
func (c *Catalog) ValidateAccessToken(token string) bool {
	return token != ""
}

// ImportCountries adds countries that pass validation and are not already
// present.
func (c *Catalog) ImportCountries(ctx context.Context, token string, countries []*model.Country) (ImportResult, error) {
	return importBatch(ctx, c, c.countries, KindCountry, token, countries)
}

// ImportDevices adds devices that pass validation and are not already
// present.
func (c *Catalog) ImportDevices(ctx context.Context, token string, devices []*model.Device) (ImportResult, error) {
	return importBatch(ctx, c, c.devices, KindDevice, token, devices)
}

// ImportContent adds content items that pass validation and are not already
// present. The catalog stores normalized copies; items is left untouched.
func (c *Catalog) ImportContent(ctx context.Context, token string, items []*model.Content) (ImportResult, error) {
	if !c.ValidateAccessToken(token) {
		return ImportResult{}, ErrUnauthorized
	}

	copies := make([]*model.Content, len(items))
	for i, item := range items {
		if item != nil {
			copies[i] = item.Clone()
			copies[i].Normalize()
		}
	}
	return importBatch(ctx, c, c.content, KindContent, token, copies)
}

func importBatch[T entity](ctx context.Context, c *Catalog, set *entitySet[T], kind Kind, token string, items []T) (ImportResult, error) {
	if !c.ValidateAccessToken(token) {
		return ImportResult{}, ErrUnauthorized
	}

	start := time.Now()
	result := ImportResult{
		BatchID: batchID(ctx),
		Kind:    kind,
		Total:   len(items),
	}
	logger := c.logger.With("batch_id", result.BatchID, "kind", kind)

	c.mu.Lock()
	for i, item := range items {
		switch err := set.insert(item); {
		case err == nil:
			result.Inserted++
		case errors.Is(err, errDuplicate):
			result.Duplicates++
		default:
			result.Invalid++
			logger.Debug("skipping invalid entity", "index", i, "reason", err)
		}
	}
	c.mu.Unlock()

	result.Duration = time.Since(start)
	logger.Info("import completed",
		"total", result.Total,
		"inserted", result.Inserted,
		"duplicates", result.Duplicates,
		"invalid", result.Invalid,
		"duration", result.Duration,
	)
	return result, nil
}

// batchID reuses the batch id carried by ctx, or starts a new one.
func batchID(ctx context.Context) string {
	if id := logging.BatchID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}

// CountryByCode looks a country up by code, ignoring case.
func (c *Catalog) CountryByCode(code string) (*model.Country, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.countries.get(model.Fold(code))
}

// DeviceByID looks a device up by id, ignoring case.
func (c *Catalog) DeviceByID(id string) (*model.Device, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.devices.get(model.Fold(id))
}

// SearchContent returns every content item matching criteria. The order of
// the result is not part of the contract.
func (c *Catalog) SearchContent(criteria model.Criteria) []*model.Content {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var found []*model.Content
	for _, item := range c.content.items {
		if clause, ok := matcher.Match(item, &criteria); ok {
			c.logger.Debug("content matched", "name", item.Name, "clause", clause)
			found = append(found, item)
		}
	}
	return found
}

// AllContent returns every content item.
func (c *Catalog) AllContent() []*model.Content {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.content.all()
}

// ContentOfType returns the content items of one variant.
func (c *Catalog) ContentOfType(t model.ContentType) []*model.Content {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []*model.Content
	for _, item := range c.content.items {
		if item.Type == t {
			out = append(out, item)
		}
	}
	return out
}

// Applications returns every application.
func (c *Catalog) Applications() []*model.Content {
	return c.ContentOfType(model.TypeApplication)
}

// Ringtones returns every ringtone.
func (c *Catalog) Ringtones() []*model.Content {
	return c.ContentOfType(model.TypeRingtone)
}

// Wallpapers returns every wallpaper.
func (c *Catalog) Wallpapers() []*model.Content {
	return c.ContentOfType(model.TypeWallpaper)
}

// Countries returns every country.
func (c *Catalog) Countries() []*model.Country {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.countries.all()
}

// Devices returns every device.
func (c *Catalog) Devices() []*model.Device {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.devices.all()
}

// ContentCount returns the number of content items.
func (c *Catalog) ContentCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.content.items)
}

// Package model defines the storefront catalog entities and search criteria.
//
// Countries and devices are identified by their natural keys (country code,
// device id) compared case-insensitively. Content items are identified by
// value: two items with identical fields are the same item.
//
// Content is a single struct carrying the shared attributes plus one
// variant payload (Application, Ringtone or Wallpaper) selected by Type.
package model

import (
	"slices"
	"strings"
)

// ExportStatus says whether content may be exported to a country.
type ExportStatus string

const (
	ExportOpen   ExportStatus = "open"
	ExportClosed ExportStatus = "closed"
)

// ParseExportStatus normalizes s. Unknown values are returned as-is and
// rejected later by Country.Validate.
func ParseExportStatus(s string) ExportStatus {
	return ExportStatus(strings.ToLower(strings.TrimSpace(s)))
}

// Valid reports whether s is open or closed.
func (s ExportStatus) Valid() bool {
	return s == ExportOpen || s == ExportClosed
}

// Country is a market content may be sold into.
type Country struct {
	Code         string
	Name         string
	ExportStatus ExportStatus
}

// NewCountry builds a Country from raw column values.
func NewCountry(code, name, status string) *Country {
	return &Country{
		Code:         strings.TrimSpace(code),
		Name:         strings.TrimSpace(name),
		ExportStatus: ParseExportStatus(status),
	}
}

// Key returns the case-insensitive natural key.
func (c *Country) Key() string {
	return Fold(c.Code)
}

// Device is a handset content can be installed on.
type Device struct {
	ID           string
	Name         string
	Manufacturer string
}

// NewDevice builds a Device from raw column values.
func NewDevice(id, name, manufacturer string) *Device {
	return &Device{
		ID:           strings.TrimSpace(id),
		Name:         strings.TrimSpace(name),
		Manufacturer: strings.TrimSpace(manufacturer),
	}
}

// Key returns the case-insensitive natural key.
func (d *Device) Key() string {
	return Fold(d.ID)
}

// ContentType tags the content variant.
type ContentType string

const (
	TypeApplication ContentType = "application"
	TypeRingtone    ContentType = "ringtone"
	TypeWallpaper   ContentType = "wallpaper"
)

// AllContentTypes lists every known content type in a stable order.
func AllContentTypes() []ContentType {
	return []ContentType{TypeApplication, TypeRingtone, TypeWallpaper}
}

// ParseContentType resolves a content type name case-insensitively.
func ParseContentType(s string) (ContentType, bool) {
	t := ContentType(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(AllContentTypes(), t) {
		return t, true
	}
	return "", false
}

// Label returns a display name for the type.
func (t ContentType) Label() string {
	switch t {
	case TypeApplication:
		return "Application"
	case TypeRingtone:
		return "Ringtone"
	case TypeWallpaper:
		return "Wallpaper"
	default:
		return "Unknown"
	}
}

// Application holds the application-only attributes.
type Application struct {
	FileSizeBytes int64
}

// Ringtone holds the ringtone-only attributes.
type Ringtone struct {
	DurationSeconds float64
}

// Wallpaper holds the wallpaper-only attributes.
type Wallpaper struct {
	PixelWidth  int
	PixelHeight int
}

// Content is an item sold in the storefront.
//
// Categories and Languages are kept sorted and free of duplicates, and
// Devices and Countries sorted by key, so that equal items compare equal
// regardless of input order. Use the constructors or Normalize after
// building a Content by hand.
type Content struct {
	Type        ContentType
	Name        string
	Description string
	Author      string
	Rating      int
	Price       float64
	Categories  []string
	Languages   []string
	Devices     []*Device
	Countries   []*Country
	ImageURL    string

	// Exactly one of these is meaningful, chosen by Type.
	Application Application
	Ringtone    Ringtone
	Wallpaper   Wallpaper
}

// Clone returns a copy of c that shares no slices with it. The referenced
// devices and countries themselves are shared.
func (c *Content) Clone() *Content {
	if c == nil {
		return nil
	}
	out := *c
	out.Categories = slices.Clone(c.Categories)
	out.Languages = slices.Clone(c.Languages)
	out.Devices = slices.Clone(c.Devices)
	out.Countries = slices.Clone(c.Countries)
	return &out
}

// Normalize sorts and deduplicates the set-valued fields and clears the
// payloads that do not belong to Type.
func (c *Content) Normalize() {
	c.Categories = normalizeStrings(c.Categories)
	c.Languages = normalizeStrings(c.Languages)
	c.Devices = normalizeRefs(c.Devices, (*Device).Key)
	c.Countries = normalizeRefs(c.Countries, (*Country).Key)

	// -0 would hash differently from 0.
	if c.Price == 0 {
		c.Price = 0
	}
	if c.Ringtone.DurationSeconds == 0 {
		c.Ringtone.DurationSeconds = 0
	}

	if c.Type != TypeApplication {
		c.Application = Application{}
	}
	if c.Type != TypeRingtone {
		c.Ringtone = Ringtone{}
	}
	if c.Type != TypeWallpaper {
		c.Wallpaper = Wallpaper{}
	}
}

// Equal reports whether c and o hold identical values.
func (c *Content) Equal(o *Content) bool {
	if c == o {
		return true
	}
	if c == nil || o == nil {
		return false
	}
	return c.Type == o.Type &&
		c.Name == o.Name &&
		c.Description == o.Description &&
		c.Author == o.Author &&
		c.Rating == o.Rating &&
		c.Price == o.Price &&
		c.ImageURL == o.ImageURL &&
		slices.Equal(c.Categories, o.Categories) &&
		slices.Equal(c.Languages, o.Languages) &&
		slices.EqualFunc(c.Devices, o.Devices, func(a, b *Device) bool { return a.Key() == b.Key() }) &&
		slices.EqualFunc(c.Countries, o.Countries, func(a, b *Country) bool { return a.Key() == b.Key() }) &&
		c.Application == o.Application &&
		c.Ringtone == o.Ringtone &&
		c.Wallpaper == o.Wallpaper
}

// Key returns the value fingerprint used for deduplication.
func (c *Content) Key() string {
	return c.Fingerprint()
}

func normalizeStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := slices.Clone(in)
	slices.Sort(out)
	return slices.Compact(out)
}

func normalizeRefs[T any](in []*T, key func(*T) string) []*T {
	if len(in) == 0 {
		return nil
	}
	out := make([]*T, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, ref := range in {
		if ref == nil {
			continue
		}
		k := key(ref)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, ref)
	}
	slices.SortFunc(out, func(a, b *T) int { return strings.Compare(key(a), key(b)) })
	return out
}

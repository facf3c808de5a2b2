package model

// validation.go holds the structural checks run before an entity enters the
// catalog. A failed check never aborts an import; the catalog drops the
// entity and records the reason.

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

const (
	// MinRating and MaxRating bound Content.Rating.
	MinRating = 0
	MaxRating = 5

	countryCodeLen = 2
)

// ValidationError describes why an entity was rejected.
type ValidationError struct {
	Field   string // Attribute name
	Value   string // The offending value
	Message string // Human-readable reason
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{Field: field, Message: "required field is empty"}
	}
	return nil
}

// Validate checks the country code, name and export status.
func (c *Country) Validate() error {
	if err := required("code", c.Code); err != nil {
		return err
	}
	if utf8.RuneCountInString(c.Code) != countryCodeLen {
		return ValidationError{Field: "code", Value: c.Code, Message: "must be 2 characters"}
	}
	if err := required("name", c.Name); err != nil {
		return err
	}
	if !c.ExportStatus.Valid() {
		return ValidationError{
			Field:   "export_status",
			Value:   string(c.ExportStatus),
			Message: "must be one of: open, closed",
		}
	}
	return nil
}

// Validate checks that every device column is present.
func (d *Device) Validate() error {
	if err := required("id", d.ID); err != nil {
		return err
	}
	if err := required("name", d.Name); err != nil {
		return err
	}
	return required("manufacturer", d.Manufacturer)
}

// Validate checks the shared attributes and the payload of the item's type.
func (c *Content) Validate() error {
	if _, ok := ParseContentType(string(c.Type)); !ok {
		return ValidationError{Field: "type", Value: string(c.Type), Message: "unknown content type"}
	}
	if err := required("name", c.Name); err != nil {
		return err
	}
	if c.Rating < MinRating || c.Rating > MaxRating {
		return ValidationError{
			Field:   "rating",
			Value:   fmt.Sprint(c.Rating),
			Message: fmt.Sprintf("must be between %d and %d", MinRating, MaxRating),
		}
	}
	if c.Price < 0 || math.IsNaN(c.Price) || math.IsInf(c.Price, 0) {
		return ValidationError{Field: "price", Value: fmt.Sprint(c.Price), Message: "must be a non-negative number"}
	}

	switch c.Type {
	case TypeApplication:
		if c.Application.FileSizeBytes < 0 {
			return ValidationError{Field: "filesize", Value: fmt.Sprint(c.Application.FileSizeBytes), Message: "must not be negative"}
		}
	case TypeRingtone:
		if c.Ringtone.DurationSeconds < 0 {
			return ValidationError{Field: "duration", Value: fmt.Sprint(c.Ringtone.DurationSeconds), Message: "must not be negative"}
		}
	case TypeWallpaper:
		if c.Wallpaper.PixelWidth < 0 || c.Wallpaper.PixelHeight < 0 {
			return ValidationError{
				Field:   "pixel_dimensions",
				Value:   fmt.Sprintf("%dx%d", c.Wallpaper.PixelWidth, c.Wallpaper.PixelHeight),
				Message: "must not be negative",
			}
		}
	}
	return nil
}

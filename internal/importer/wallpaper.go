package importer

import (
	"fmt"
	"strings"
)

// WallpaperPolicy selects where wallpaper pixel dimensions come from.
type WallpaperPolicy string

const (
	// WallpaperFixed ignores the dimension columns and always uses the
	// default width and height.
	WallpaperFixed WallpaperPolicy = "fixed"
	// WallpaperParsed uses the dimension columns when both are present and
	// falls back to the defaults otherwise.
	WallpaperParsed WallpaperPolicy = "parsed"
)

// Default wallpaper dimensions.
const (
	DefaultWallpaperWidth  = 1920
	DefaultWallpaperHeight = 1080
)

// ParseWallpaperPolicy parses "fixed" or "parsed", ignoring case.
func ParseWallpaperPolicy(s string) (WallpaperPolicy, error) {
	switch p := WallpaperPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case WallpaperFixed, WallpaperParsed:
		return p, nil
	default:
		return "", fmt.Errorf("unknown wallpaper dimension policy %q", s)
	}
}

// WallpaperDimensions is the policy together with its defaults.
type WallpaperDimensions struct {
	Policy WallpaperPolicy
	Width  int
	Height int
}

// DefaultWallpaperDimensions returns the fixed 1920x1080 policy.
func DefaultWallpaperDimensions() WallpaperDimensions {
	return WallpaperDimensions{
		Policy: WallpaperFixed,
		Width:  DefaultWallpaperWidth,
		Height: DefaultWallpaperHeight,
	}
}

// resolve picks the dimensions of one wallpaper row. Present cells must be
// integers under either policy.
func (d WallpaperDimensions) resolve(width, height string) (int, int, error) {
	w, h, err := parseDimensions(width, height)
	if err != nil {
		return 0, 0, err
	}
	if d.Policy == WallpaperParsed && width != "" && height != "" {
		return w, h, nil
	}
	return d.Width, d.Height, nil
}

// parseDimensions parses the non-empty dimension cells. Missing cells
// yield 0.
func parseDimensions(width, height string) (w, h int, err error) {
	if width != "" {
		if w, err = parseInt(width, "pixel_width"); err != nil {
			return 0, 0, err
		}
	}
	if height != "" {
		if h, err = parseInt(height, "pixel_height"); err != nil {
			return 0, 0, err
		}
	}
	return w, h, nil
}

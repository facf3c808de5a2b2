package model

import (
	"encoding/binary"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes every field of the item. Equal items always share a
// fingerprint; the catalog confirms hits with Equal.
//
// Strings are length-prefixed so that field boundaries cannot be shifted
// ("ab"+"c" and "a"+"bc" hash differently).
func (c *Content) Fingerprint() string {
	d := xxhash.New()

	writeString(d, string(c.Type))
	writeString(d, c.Name)
	writeString(d, c.Description)
	writeString(d, c.Author)
	writeUint(d, uint64(int64(c.Rating)))
	writeUint(d, math.Float64bits(c.Price))
	writeString(d, c.ImageURL)

	writeUint(d, uint64(len(c.Categories)))
	for _, s := range c.Categories {
		writeString(d, s)
	}
	writeUint(d, uint64(len(c.Languages)))
	for _, s := range c.Languages {
		writeString(d, s)
	}
	writeUint(d, uint64(len(c.Devices)))
	for _, dev := range c.Devices {
		writeString(d, dev.Key())
	}
	writeUint(d, uint64(len(c.Countries)))
	for _, ctry := range c.Countries {
		writeString(d, ctry.Key())
	}

	writeUint(d, uint64(c.Application.FileSizeBytes))
	writeUint(d, math.Float64bits(c.Ringtone.DurationSeconds))
	writeUint(d, uint64(int64(c.Wallpaper.PixelWidth)))
	writeUint(d, uint64(int64(c.Wallpaper.PixelHeight)))

	return strconv.FormatUint(d.Sum64(), 16)
}

func writeString(d *xxhash.Digest, s string) {
	writeUint(d, uint64(len(s)))
	_, _ = d.WriteString(s)
}

func writeUint(d *xxhash.Digest, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = d.Write(buf[:])
}

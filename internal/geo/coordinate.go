// Package geo holds the coordinate value shared by the picker and its adapters.
package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Precision is the number of fractional digits shown for a coordinate.
const Precision = 6

// Placeholder is displayed in place of an absent coordinate.
const Placeholder = "—"

// Coordinate is an immutable latitude/longitude pair in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"lat" validate:"latitude"`
	Longitude float64 `json:"lon" validate:"longitude"`
}

// New returns a coordinate after checking both axes are finite and in range.
func New(lat, lon float64) (Coordinate, error) {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return Coordinate{}, fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		return Coordinate{}, fmt.Errorf("longitude %v out of range [-180, 180]", lon)
	}
	return Coordinate{Latitude: lat, Longitude: lon}, nil
}

// Parse builds a coordinate from decimal strings as returned by geocoders.
func Parse(lat, lon string) (Coordinate, error) {
	la, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid latitude %q: %w", lat, err)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid longitude %q: %w", lon, err)
	}
	return New(la, lo)
}

// FormatDegrees renders v with exactly Precision fractional digits.
func FormatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', Precision, 64)
}

// Format returns the display strings for both axes.
func (c Coordinate) Format() (lat, lon string) {
	return FormatDegrees(c.Latitude), FormatDegrees(c.Longitude)
}

// String implements fmt.Stringer as "lat, lon".
func (c Coordinate) String() string {
	lat, lon := c.Format()
	return lat + ", " + lon
}

// FormatOptional is Format with the placeholder for a nil coordinate.
func FormatOptional(c *Coordinate) (lat, lon string) {
	if c == nil {
		return Placeholder, Placeholder
	}
	return c.Format()
}

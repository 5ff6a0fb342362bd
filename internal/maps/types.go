package maps

import "location_picker/internal/geo"

// LookupRequest represents the query parameters of a direct lookup.
type LookupRequest struct {
	Query string `form:"q" binding:"required"`
}

// LookupResponse is the first match of a direct lookup.
type LookupResponse struct {
	Query      string         `json:"query"`
	Coordinate geo.Coordinate `json:"coordinate"`
	Latitude   string         `json:"latitude"`
	Longitude  string         `json:"longitude"`
}

// searchResult mirrors the relevant parts of the OSM search payload.
// Coordinates arrive as decimal strings.
type searchResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

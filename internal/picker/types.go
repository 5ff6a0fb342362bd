package picker

// ClickRequest is a map surface click, longitude already wrapped by the client.
type ClickRequest struct {
	Latitude  *float64 `json:"lat" validate:"required,latitude"`
	Longitude *float64 `json:"lon" validate:"required,longitude"`
}

// LocateRequest starts a device position read.
type LocateRequest struct {
	Supported bool `json:"supported"`
}

// SearchRequest carries the transient search query.
type SearchRequest struct {
	Query string `json:"q"`
}

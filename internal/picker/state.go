// Package picker implements the location picker: per-session selection state,
// its transitions, the device geolocation bridge and the page views.
package picker

import (
	"location_picker/internal/geo"

	"github.com/google/uuid"
)

const (
	// MessageUnsupported is shown when the client has no position sensor.
	MessageUnsupported = "Geolocation is not supported by your browser"
	// MessageUnavailable is shown when the sensor read is denied or times out.
	MessageUnavailable = "Unable to retrieve your location"
)

// State is the selection state of one mounted picker.
// Coordinate is replaced wholesale and never mutated in place.
type State struct {
	Coordinate   *geo.Coordinate `json:"coordinate"`
	Busy         bool            `json:"busy"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
}

// Snapshot is a copy of a session's state at a given revision.
// LocateSeq is set while a device position read is waiting for the page.
type Snapshot struct {
	SessionID uuid.UUID `json:"sessionId"`
	Revision  uint64    `json:"revision"`
	LocateSeq uint64    `json:"locateSeq,omitempty"`
	State     State     `json:"state"`
	Details   Details   `json:"details"`
}

// Details is the rendered details panel.
type Details struct {
	Latitude         string `json:"latitude"`
	Longitude        string `json:"longitude"`
	Error            string `json:"error,omitempty"`
	ControlsDisabled bool   `json:"controlsDisabled"`
	LocateLabel      string `json:"locateLabel"`
}

// RenderDetails is the details panel as a pure function of state.
func RenderDetails(s State) Details {
	lat, lon := geo.FormatOptional(s.Coordinate)
	d := Details{
		Latitude:         lat,
		Longitude:        lon,
		Error:            s.ErrorMessage,
		ControlsDisabled: s.Busy,
		LocateLabel:      "Get Current Location",
	}
	if s.Busy {
		d.LocateLabel = "Loading..."
	}
	return d
}

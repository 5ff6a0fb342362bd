package picker

import (
	"testing"

	"location_picker/internal/geo"
	"location_picker/platform/config"

	"github.com/stretchr/testify/assert"
)

func TestRenderDetails(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Details
	}{
		{
			name:  "initial",
			state: State{},
			want:  Details{Latitude: geo.Placeholder, Longitude: geo.Placeholder, LocateLabel: "Get Current Location"},
		},
		{
			name:  "selected",
			state: State{Coordinate: &geo.Coordinate{Latitude: 48.8566, Longitude: 2.3522}},
			want:  Details{Latitude: "48.856600", Longitude: "2.352200", LocateLabel: "Get Current Location"},
		},
		{
			name:  "zero coordinate is still shown",
			state: State{Coordinate: &geo.Coordinate{}},
			want:  Details{Latitude: "0.000000", Longitude: "0.000000", LocateLabel: "Get Current Location"},
		},
		{
			name:  "busy",
			state: State{Busy: true},
			want:  Details{Latitude: geo.Placeholder, Longitude: geo.Placeholder, ControlsDisabled: true, LocateLabel: "Loading..."},
		},
		{
			name:  "error",
			state: State{ErrorMessage: MessageUnavailable},
			want:  Details{Latitude: geo.Placeholder, Longitude: geo.Placeholder, Error: MessageUnavailable, LocateLabel: "Get Current Location"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RenderDetails(tt.state))
		})
	}
}

func TestMapSurface_View(t *testing.T) {
	surface := NewMapSurface(&config.Config{
		TileURLTemplate:   "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png",
		TileAttribution:   "OSM",
		DefaultCenterLat:  51.505,
		DefaultCenterLon:  -0.09,
		InitialZoom:       13,
		MarkerIconBaseURL: "https://unpkg.com/leaflet@1.7.1/dist/images",
	})

	v := surface.View(State{})
	assert.Equal(t, geo.Coordinate{Latitude: 51.505, Longitude: -0.09}, v.Center)
	assert.Equal(t, 13, v.Zoom)
	assert.Nil(t, v.Marker)
	assert.Equal(t, "https://unpkg.com/leaflet@1.7.1/dist/images/marker-icon-2x.png", v.Icons.IconRetinaURL)
	assert.Equal(t, "https://unpkg.com/leaflet@1.7.1/dist/images/marker-shadow.png", v.Icons.ShadowURL)

	selected := geo.Coordinate{Latitude: -33.8688, Longitude: 151.2093}
	v = surface.View(State{Coordinate: &selected})
	assert.Equal(t, selected, v.Center)
	assert.Equal(t, 13, v.Zoom)
	if assert.NotNil(t, v.Marker) {
		assert.Equal(t, selected, *v.Marker)
	}
}

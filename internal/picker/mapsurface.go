package picker

import (
	"location_picker/internal/geo"
	"location_picker/platform/config"
)

// MarkerIcons are the marker graphics installed once, before the first map
// render, by the client's icon setup call.
type MarkerIcons struct {
	IconURL       string `json:"iconUrl"`
	IconRetinaURL string `json:"iconRetinaUrl"`
	ShadowURL     string `json:"shadowUrl"`
}

// MapSurface describes the tiled basemap. It is fixed at startup.
type MapSurface struct {
	defaultCenter geo.Coordinate
	zoom          int
	tileURL       string
	attribution   string
	icons         MarkerIcons
}

// MapView is what the client needs to draw the map for a given state.
type MapView struct {
	Center      geo.Coordinate  `json:"center"`
	Zoom        int             `json:"zoom"`
	TileURL     string          `json:"tileUrl"`
	Attribution string          `json:"attribution"`
	Marker      *geo.Coordinate `json:"marker,omitempty"`
	Icons       MarkerIcons     `json:"icons"`
}

func NewMapSurface(cfg config.MapConfig) MapSurface {
	lat, lon := cfg.GetDefaultCenter()
	base := cfg.GetMarkerIconBaseURL()
	return MapSurface{
		defaultCenter: geo.Coordinate{Latitude: lat, Longitude: lon},
		zoom:          cfg.GetInitialZoom(),
		tileURL:       cfg.GetTileURLTemplate(),
		attribution:   cfg.GetTileAttribution(),
		icons: MarkerIcons{
			IconURL:       base + "/marker-icon.png",
			IconRetinaURL: base + "/marker-icon-2x.png",
			ShadowURL:     base + "/marker-shadow.png",
		},
	}
}

// View centers on the selected coordinate, or the default center when none.
func (m MapSurface) View(s State) MapView {
	v := MapView{
		Center:      m.defaultCenter,
		Zoom:        m.zoom,
		TileURL:     m.tileURL,
		Attribution: m.attribution,
		Icons:       m.icons,
	}
	if s.Coordinate != nil {
		v.Center = *s.Coordinate
		v.Marker = s.Coordinate
	}
	return v
}

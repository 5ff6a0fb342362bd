package picker

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed web/templates/*.html web/static/*
var webFS embed.FS

var pageTemplate = template.Must(template.ParseFS(webFS, "web/templates/picker.html"))

// PageConfig is handed to the client script as JSON.
type PageConfig struct {
	APIBase  string   `json:"apiBase"`
	Snapshot Snapshot `json:"snapshot"`
	Map      MapView  `json:"map"`
}

// PageData feeds the picker template. Details renders the panel server-side
// so the first paint matches the state.
type PageData struct {
	Details Details
	Config  PageConfig
}

func newPageData(apiBase string, snap Snapshot, surface MapSurface) PageData {
	return PageData{
		Details: snap.Details,
		Config: PageConfig{
			APIBase:  apiBase,
			Snapshot: snap,
			Map:      surface.View(snap.State),
		},
	}
}

func staticFiles() fs.FS {
	sub, err := fs.Sub(webFS, "web/static")
	if err != nil {
		panic(err)
	}
	return sub
}

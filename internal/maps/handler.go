package maps

import (
	"net/http"

	"location_picker/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the stateless lookup endpoint.
type Handler struct {
	searcher Searcher
}

func NewHandler(searcher Searcher) *Handler {
	return &Handler{searcher: searcher}
}

// Lookup handles GET /api/v1/maps/lookup?q=...
func (h *Handler) Lookup(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'q' is required", nil)
		return
	}

	coord, err := h.searcher.Lookup(c.Request.Context(), req.Query)
	if httpkit.HandleError(c, err) {
		return
	}

	lat, lon := coord.Format()
	httpkit.OK(c, LookupResponse{
		Query:      req.Query,
		Coordinate: coord,
		Latitude:   lat,
		Longitude:  lon,
	})
}

package picker

import (
	"net/http"

	"location_picker/internal/geo"
	"location_picker/platform/apperr"
	"location_picker/platform/httpkit"
	"location_picker/platform/logger"
	"location_picker/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/google/uuid"
)

const apiSessionsPath = "/api/v1/picker/sessions"

// Handler serves the picker page and its session API.
type Handler struct {
	svc     *Service
	surface MapSurface
	val     *validator.Validator
}

func NewHandler(svc *Service, surface MapSurface, val *validator.Validator) *Handler {
	return &Handler{svc: svc, surface: surface, val: val}
}

// Mount handles GET / by opening a session and redirecting to its page.
func (h *Handler) Mount(c *gin.Context) {
	snap := h.svc.Mount()
	c.Redirect(http.StatusSeeOther, "/picker/"+snap.SessionID.String())
}

// Page handles GET /picker/:id
func (h *Handler) Page(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	snap, err := h.svc.State(id)
	if err != nil {
		// Expired or unknown sessions start over with a fresh mount.
		c.Redirect(http.StatusSeeOther, "/")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Render(http.StatusOK, render.HTML{
		Template: pageTemplate,
		Name:     "picker",
		Data:     newPageData(apiSessionsPath+"/"+id.String(), snap, h.surface),
	})
}

// Create handles POST /api/v1/picker/sessions
func (h *Handler) Create(c *gin.Context) {
	httpkit.JSON(c, http.StatusCreated, h.svc.Mount())
}

// Get handles GET /api/v1/picker/sessions/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	snap, err := h.svc.State(id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, snap)
}

// Delete handles DELETE /api/v1/picker/sessions/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	if httpkit.HandleError(c, h.svc.Unmount(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// Click handles POST /api/v1/picker/sessions/:id/click
func (h *Handler) Click(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req ClickRequest
	if !h.bind(c, &req) {
		return
	}

	snap, err := h.svc.ClickMap(c.Request.Context(), id, geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, snap)
}

// Locate handles POST /api/v1/picker/sessions/:id/locate
func (h *Handler) Locate(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req LocateRequest
	if !h.bind(c, &req) {
		return
	}

	snap, err := h.svc.UseLocation(c.Request.Context(), id, req.Supported)
	h.respondDispatch(c, snap, err)
}

// Geolocation handles POST /api/v1/picker/sessions/:id/geolocation
func (h *Handler) Geolocation(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var reading SensorReading
	if !h.bind(c, &reading) {
		return
	}

	if httpkit.HandleError(c, h.svc.ReportPosition(id, reading)) {
		return
	}
	httpkit.Accepted(c, gin.H{"seq": reading.Seq})
}

// Search handles POST /api/v1/picker/sessions/:id/search
func (h *Handler) Search(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	var req SearchRequest
	if !h.bind(c, &req) {
		return
	}

	snap, err := h.svc.Search(c.Request.Context(), id, req.Query)
	h.respondDispatch(c, snap, err)
}

// resolveStream maps an event stream request to its session and snapshot.
func (h *Handler) resolveStream(c *gin.Context) (uuid.UUID, interface{}, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, nil, ErrSessionNotFound
	}
	snap, err := h.svc.State(id)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return id, snap, nil
}

// respondDispatch answers 202 while a request is in flight, 200 otherwise.
// A busy session answers 409 with the current snapshot as details.
func (h *Handler) respondDispatch(c *gin.Context, snap Snapshot, err error) {
	if err != nil {
		if apperr.Is(err, apperr.KindConflict) {
			httpkit.Error(c, http.StatusConflict, err.Error(), snap)
			return
		}
		httpkit.HandleError(c, err)
		return
	}
	if snap.State.Busy {
		httpkit.Accepted(c, snap)
		return
	}
	httpkit.OK(c, snap)
}

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body", nil)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.HandleError(c, err)
		return false
	}
	return true
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid session id", nil)
		return uuid.Nil, false
	}
	c.Request = c.Request.WithContext(logger.ContextWithSessionID(c.Request.Context(), id.String()))
	return id, true
}

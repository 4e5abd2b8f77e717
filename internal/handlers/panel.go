package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// VisibilityRequest tells the panel whether its page is in the background.
type VisibilityRequest struct {
	Hidden bool `json:"hidden" example:"true"`
}

// @Summary      Load page
// @Description  Stops the pollers of the current page and starts the ones of the named page
// @Tags         pages
// @Produce      json
// @Param        name  path  string  true  "Page"  Enums(manual,view_programs,settings,logs,create_program,modify_program)
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/pages/{name} [post]
// @Security     BearerAuth
func (h *Handler) loadPage(c *gin.Context) {
	name := c.Param("name")
	if err := h.services.Pages.LoadPage(actionContext(c), name); err != nil {
		h.respondServiceError(c, "page_load_request_failed", err, "page", name)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusLoaded, "page": name})
}

// @Summary      Current page
// @Tags         pages
// @Produce      json
// @Success      200  {object}  map[string]string  "page, program_id"
// @Router       /api/v1/pages/current [get]
// @Security     BearerAuth
func (h *Handler) currentPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"page":       h.services.Pages.CurrentPage(),
		"program_id": h.services.Pages.EditProgramID(),
	})
}

// @Summary      Page visibility
// @Description  Hidden pages poll program state at a slower rate
// @Tags         pages
// @Accept       json
// @Produce      json
// @Param        body  body  VisibilityRequest  true  "Visibility"
// @Success      200   {object}  map[string]interface{}  "hidden, poll_interval_ms"
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/visibility [post]
// @Security     BearerAuth
func (h *Handler) setVisibility(c *gin.Context) {
	var req VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	h.services.Programs.SetHidden(req.Hidden)
	c.JSON(http.StatusOK, gin.H{
		"hidden":           req.Hidden,
		"poll_interval_ms": h.services.Programs.PollInterval().Milliseconds(),
	})
}

// @Summary      Connection status
// @Description  Asks the controller; falls back to the last known status when it is unreachable
// @Tags         settings
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "connection, checked_at, stale"
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/connection [get]
// @Security     BearerAuth
func (h *Handler) getConnection(c *gin.Context) {
	st, err := h.services.Connection.ConnectionStatus(c.Request.Context())
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"connection": st, "checked_at": time.Now().UTC(), "stale": false})
		return
	}
	if last, at, ok := h.services.Connection.LastConnection(); ok {
		c.JSON(http.StatusOK, gin.H{"connection": last, "checked_at": at, "stale": true})
		return
	}
	h.respondServiceError(c, "connection_request_failed", err)
}

// @Summary      Last device snapshot
// @Description  Zones and program state as last persisted by the zone poller
// @Tags         settings
// @Produce      json
// @Success      200  {object}  models.Snapshot
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/snapshot [get]
// @Security     BearerAuth
func (h *Handler) getSnapshot(c *gin.Context) {
	snap, err := h.services.Monitoring.GetSnapshot(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to load snapshot", "snapshot_load_failed", err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// @Summary      Visible toasts
// @Tags         toasts
// @Produce      json
// @Success      200  {array}  models.Toast
// @Router       /api/v1/toasts [get]
// @Security     BearerAuth
func (h *Handler) listToasts(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Notifier.List())
}

// @Summary      Dismiss toast
// @Tags         toasts
// @Param        id  path  string  true  "Toast id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/toasts/{id} [delete]
// @Security     BearerAuth
func (h *Handler) dismissToast(c *gin.Context) {
	if !h.services.Notifier.Dismiss(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "toast not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary      Toast stream
// @Description  Server-sent events; each "toast" event carries one models.Toast as JSON
// @Tags         toasts
// @Produce      text/event-stream
// @Success      200
// @Router       /events [get]
func (h *Handler) toastEvents(c *gin.Context) {
	q := c.Request.URL.Query()
	q.Set("stream", toastStream)
	c.Request.URL.RawQuery = q.Encode()
	h.toasts.ServeHTTP(c.Writer, c.Request)
}

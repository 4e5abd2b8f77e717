package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// StartZoneRequest is the body of POST /api/v1/zones/{id}/start.
type StartZoneRequest struct {
	// Watering time in minutes, 1..max_zone_duration
	Duration int `json:"duration" example:"10"`
}

// DurationRequest is the body of PUT /api/v1/zones/{id}/duration.
type DurationRequest struct {
	Duration int `json:"duration" example:"15"`
}

func zoneIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidZoneID})
		return 0, false
	}
	return id, true
}

// @Summary      Manual page
// @Description  Zone cards with toggle, countdown and progress state
// @Tags         zones
// @Produce      json
// @Success      200  {object}  models.ManualPage
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/zones [get]
// @Security     BearerAuth
func (h *Handler) getZones(c *gin.Context) {
	page, err := h.services.Zones.ManualPage(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "zones_page_failed", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary      Start zone
// @Tags         zones
// @Accept       json
// @Produce      json
// @Param        id    path   int               true  "Zone id"
// @Param        body  body   StartZoneRequest  true  "Duration"
// @Success      200   {object}  map[string]interface{}  "status, zones"
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/zones/{id}/start [post]
// @Security     BearerAuth
func (h *Handler) startZone(c *gin.Context) {
	id, ok := zoneIDParam(c)
	if !ok {
		return
	}
	var req StartZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Zones.StartZone(actionContext(c), id, req.Duration); err != nil {
		h.respondServiceError(c, "zone_start_request_failed", err, "zone_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusStarted, "zones": h.services.Zones.ManualView()})
}

// @Summary      Stop zone
// @Tags         zones
// @Produce      json
// @Param        id  path  int  true  "Zone id"
// @Success      200  {object}  map[string]interface{}  "status, zones"
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/zones/{id}/stop [post]
// @Security     BearerAuth
func (h *Handler) stopZone(c *gin.Context) {
	id, ok := zoneIDParam(c)
	if !ok {
		return
	}
	if err := h.services.Zones.StopZone(actionContext(c), id); err != nil {
		h.respondServiceError(c, "zone_stop_request_failed", err, "zone_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusStopped, "zones": h.services.Zones.ManualView()})
}

// @Summary      Set zone duration input
// @Description  Remembers the minutes typed for a zone; validated on start
// @Tags         zones
// @Accept       json
// @Produce      json
// @Param        id    path  int              true  "Zone id"
// @Param        body  body  DurationRequest  true  "Duration"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/v1/zones/{id}/duration [put]
// @Security     BearerAuth
func (h *Handler) setZoneDuration(c *gin.Context) {
	id, ok := zoneIDParam(c)
	if !ok {
		return
	}
	var req DurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	h.services.Zones.SetDurationInput(id, req.Duration)
	c.JSON(http.StatusOK, gin.H{"status": statusUpdated})
}

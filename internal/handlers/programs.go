package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AutomaticRequest is the body of POST /api/v1/programs/{id}/automatic.
type AutomaticRequest struct {
	Enable *bool `json:"enable" binding:"required" example:"true"`
}

// @Summary      Program list
// @Description  Program cards with recurrence, months, zones and running status
// @Tags         programs
// @Produce      json
// @Success      200  {object}  models.ProgramsPage
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/programs [get]
// @Security     BearerAuth
func (h *Handler) getPrograms(c *gin.Context) {
	page, err := h.services.Programs.ProgramsPage(c.Request.Context())
	if err != nil {
		h.respondServiceError(c, "programs_page_failed", err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary      Start program
// @Description  Network failures are retried; concurrent start/stop requests get 409
// @Tags         programs
// @Produce      json
// @Param        id  path  string  true  "Program id"
// @Success      200  {object}  map[string]interface{}  "status, programs"
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/programs/{id}/start [post]
// @Security     BearerAuth
func (h *Handler) startProgram(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.Programs.StartProgram(actionContext(c), id); err != nil {
		h.respondServiceError(c, "program_start_request_failed", err, "program_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusStarted, "programs": h.services.Programs.ProgramsView()})
}

// @Summary      Stop program
// @Tags         programs
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, programs"
// @Failure      409  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/programs/stop [post]
// @Security     BearerAuth
func (h *Handler) stopProgram(c *gin.Context) {
	if err := h.services.Programs.StopProgram(actionContext(c)); err != nil {
		h.respondServiceError(c, "program_stop_request_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusStopped, "programs": h.services.Programs.ProgramsView()})
}

// @Summary      Stop everything
// @Description  Stops the running program and every manual zone
// @Tags         programs
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/stop-all [post]
// @Security     BearerAuth
func (h *Handler) stopAll(c *gin.Context) {
	if err := h.services.Programs.StopAll(actionContext(c)); err != nil {
		h.respondServiceError(c, "stop_all_request_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusStopped})
}

// @Summary      Delete program
// @Tags         programs
// @Produce      json
// @Param        id  path  string  true  "Program id"
// @Success      200  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/programs/{id}/delete [post]
// @Security     BearerAuth
func (h *Handler) deleteProgram(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.Programs.DeleteProgram(actionContext(c), id); err != nil {
		h.respondServiceError(c, "program_delete_request_failed", err, "program_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusDeleted})
}

// @Summary      Toggle automatic activation
// @Tags         programs
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "Program id"
// @Param        body  body  AutomaticRequest  true  "Enable flag"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/v1/programs/{id}/automatic [post]
// @Security     BearerAuth
func (h *Handler) toggleAutomatic(c *gin.Context) {
	id := c.Param("id")
	var req AutomaticRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}
	if err := h.services.Programs.ToggleAutomatic(actionContext(c), id, *req.Enable); err != nil {
		h.respondServiceError(c, "program_automatic_request_failed", err, "program_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusUpdated})
}

// @Summary      Edit program
// @Description  Switches to the modify page for the program
// @Tags         pages
// @Produce      json
// @Param        id  path  string  true  "Program id"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /api/v1/programs/{id}/edit [post]
// @Security     BearerAuth
func (h *Handler) editProgram(c *gin.Context) {
	id := c.Param("id")
	if err := h.services.Pages.EditProgram(actionContext(c), id); err != nil {
		h.respondServiceError(c, "program_edit_request_failed", err, "program_id", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusLoaded, "page": h.services.Pages.CurrentPage(), "program_id": id})
}

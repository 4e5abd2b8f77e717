package simulator

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type startZoneRequest struct {
	ZoneID   *int `json:"zone_id" binding:"required"`
	Duration int  `json:"duration"`
}

type zoneRequest struct {
	ZoneID *int `json:"zone_id" binding:"required"`
}

type programRequest struct {
	ProgramID string `json:"program_id" binding:"required"`
}

type deleteRequest struct {
	ID string `json:"id" binding:"required"`
}

type toggleRequest struct {
	ProgramID string `json:"program_id" binding:"required"`
	Enable    bool   `json:"enable"`
}

// Routes builds the controller's REST API.
func (d *Device) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	data := r.Group("/data")
	{
		data.GET("/user_settings.json", func(c *gin.Context) { c.JSON(http.StatusOK, d.UserSettings()) })
		data.GET("/program.json", func(c *gin.Context) { c.JSON(http.StatusOK, d.Programs()) })
	}
	r.GET("/get_zones_status", func(c *gin.Context) { c.JSON(http.StatusOK, d.ZonesStatus()) })
	r.GET("/get_program_state", func(c *gin.Context) { c.JSON(http.StatusOK, d.ProgramState()) })
	r.GET("/get_connection_status", func(c *gin.Context) { c.JSON(http.StatusOK, d.Connection()) })

	r.POST("/start_zone", d.startZone)
	r.POST("/stop_zone", d.stopZone)
	r.POST("/start_program", d.startProgram)
	r.POST("/stop_program", func(c *gin.Context) { reply(c, d.StopProgram()) })
	r.POST("/delete_program", d.deleteProgram)
	r.POST("/toggle_program_automatic", d.toggleAutomatic)
	return r
}

// reply writes the controller's action envelope. Refusals are still 200.
func reply(c *gin.Context, err error) {
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body: " + err.Error()})
}

func (d *Device) startZone(c *gin.Context) {
	var req startZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	reply(c, d.StartZone(*req.ZoneID, req.Duration))
}

func (d *Device) stopZone(c *gin.Context) {
	var req zoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	reply(c, d.StopZone(*req.ZoneID))
}

func (d *Device) startProgram(c *gin.Context) {
	var req programRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	reply(c, d.StartProgram(req.ProgramID))
}

func (d *Device) deleteProgram(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	reply(c, d.DeleteProgram(req.ID))
}

func (d *Device) toggleAutomatic(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	reply(c, d.ToggleAutomatic(req.ProgramID, req.Enable))
}

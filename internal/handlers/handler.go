package handlers

import (
	"encoding/json"
	"net/http"

	"irrigation_panel/internal/logger"
	"irrigation_panel/internal/models"
	"irrigation_panel/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/r3labs/sse/v2"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// toastStream is the SSE stream name toasts are published on.
const toastStream = "toasts"

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	toasts   *sse.Server
}

// NewHandler constructs a new HTTP handler and subscribes it to new toasts.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	srv := sse.New()
	srv.AutoReplay = false
	srv.CreateStream(toastStream)

	h := &Handler{services: services, log: log, toasts: srv}
	if services.Notifier != nil {
		services.Notifier.OnShow(h.publishToast)
	}
	return h
}

// Close ends every open event stream.
func (h *Handler) Close() {
	h.toasts.Close()
}

func (h *Handler) publishToast(t models.Toast) {
	b, err := json.Marshal(t)
	if err != nil {
		return
	}
	h.toasts.Publish(toastStream, &sse.Event{Event: []byte("toast"), Data: b})
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// browser streams cannot send headers, so they sit outside /api/v1
	router.GET("/ws", h.wsConnect)
	router.GET("/events", h.toastEvents)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.operatorMiddleware)
	{
		h.registerZoneRoutes(api)
		h.registerProgramRoutes(api)
		h.registerPanelRoutes(api)
		h.registerLogRoutes(api)
	}
}

func (h *Handler) registerZoneRoutes(api *gin.RouterGroup) {
	zones := api.Group("/zones")
	{
		zones.GET("", h.getZones)
		// Body example: {"duration":10}
		zones.POST("/:id/start", h.startZone)
		zones.POST("/:id/stop", h.stopZone)
		zones.PUT("/:id/duration", h.setZoneDuration)
	}
}

func (h *Handler) registerProgramRoutes(api *gin.RouterGroup) {
	programs := api.Group("/programs")
	{
		programs.GET("", h.getPrograms)
		programs.POST("/stop", h.stopProgram)
		programs.POST("/:id/start", h.startProgram)
		programs.POST("/:id/delete", h.deleteProgram)
		// Body example: {"enable":false}
		programs.POST("/:id/automatic", h.toggleAutomatic)
		programs.POST("/:id/edit", h.editProgram)
	}
	api.POST("/stop-all", h.stopAll)
}

func (h *Handler) registerPanelRoutes(api *gin.RouterGroup) {
	api.GET("/me", h.me)
	api.GET("/pages/current", h.currentPage)
	api.POST("/pages/:name", h.loadPage)
	api.POST("/visibility", h.setVisibility)
	api.GET("/connection", h.getConnection)
	api.GET("/snapshot", h.getSnapshot)
	api.GET("/toasts", h.listToasts)
	api.DELETE("/toasts/:id", h.dismissToast)
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	logs := api.Group("/logs")
	{
		logs.GET("/", h.getLogs)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": statusOK})
}

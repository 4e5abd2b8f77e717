package handlers

import (
	"errors"
	"net/http"

	"irrigation_panel/internal/device"
	"irrigation_panel/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK      = "ok"
	statusStarted = "started"
	statusStopped = "stopped"
	statusDeleted = "deleted"
	statusUpdated = "updated"
	statusLoaded  = "loaded"

	errInvalidBodyPref = "invalid body: "
	errInvalidZoneID   = "invalid zone id"
)

// statusFor maps service and device failures to HTTP status codes.
func statusFor(err error) int {
	var (
		httpErr   *device.HTTPError
		actionErr *device.ActionError
	)
	switch {
	case errors.Is(err, service.ErrInvalidDuration),
		errors.Is(err, service.ErrManualDisabled):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrProgramNotFound),
		errors.Is(err, service.ErrUnknownPage):
		return http.StatusNotFound
	case errors.Is(err, service.ErrActionInFlight),
		errors.Is(err, service.ErrPageLoading):
		return http.StatusConflict
	case errors.As(err, &actionErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &httpErr),
		errors.Is(err, device.ErrBadResponse),
		device.IsNetworkError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// respondServiceError writes err with the status statusFor picks. Device
// refusals carry the controller's own message.
func (h *Handler) respondServiceError(c *gin.Context, logKey string, err error, kv ...interface{}) {
	msg := err.Error()
	if m := device.Message(err); m != "" {
		msg = m
	}
	h.logAndJSONError(c, statusFor(err), msg, logKey, err, kv...)
}

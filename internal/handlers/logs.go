package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"irrigation_panel/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// operatorSelf in the operator filter selects the caller's own events.
const operatorSelf = "me"

// @Summary      Activity log
// @Description  Zone, program and error events recorded by the panel, with the operator that triggered them. Filter by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'); a date-only 'to' covers the whole day.
// @Tags         logs
// @Produce      json
// @Param        from      query  string  false  "Start of range"  example(2025-08-01)
// @Param        to        query  string  false  "End of range; date-only means end of day"  example(2025-08-31)
// @Param        type      query  string  false  "Event type"  Enums(ZONE_START,ZONE_STOP,ZONE_EXPIRED,PROGRAM_START,PROGRAM_STOP,PROGRAM_DELETE,PROGRAM_AUTOMATIC,STOP_ALL,ERROR)
// @Param        operator  query  string  false  "Operator username, or 'me'"
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
// @Security     BearerAuth
func (h *Handler) getLogs(c *gin.Context) {
	filter, ok := logFilter(c)
	if !ok {
		return
	}
	events, err := h.services.EventLog.List(c.Request.Context(), filter)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("logs_list_failed", "err", err, "from", filter.From, "to", filter.To, "type", filter.Type, "operator", filter.Operator)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// logFilter reads the query string. It writes a 400 and returns false when a
// bound does not parse or the range is inverted.
func logFilter(c *gin.Context) (service.LogFilter, bool) {
	f := service.LogFilter{
		Type:     strings.ToUpper(strings.TrimSpace(c.Query("type"))),
		Operator: strings.TrimSpace(c.Query("operator")),
	}
	if strings.EqualFold(f.Operator, operatorSelf) {
		op, _ := operatorFrom(c)
		f.Operator = op.Username
	}

	var err error
	if qs := c.Query("from"); qs != "" {
		if f.From, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return f, false
		}
	}
	if qs := c.Query("to"); qs != "" {
		if f.To, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return f, false
		}
		if isDateOnly(qs) {
			f.To = f.To.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return f, false
	}
	return f, true
}

func parseQueryTime(s string) (time.Time, error) {
	// Try multiple accepted formats, normalizing to UTC.
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2025-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}


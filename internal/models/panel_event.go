package models

import "time"

// Panel event types.
const (
	EventZoneStart        = "ZONE_START"
	EventZoneStop         = "ZONE_STOP"
	EventZoneExpired      = "ZONE_EXPIRED"
	EventProgramStart     = "PROGRAM_START"
	EventProgramStop      = "PROGRAM_STOP"
	EventProgramDelete    = "PROGRAM_DELETE"
	EventProgramAutomatic = "PROGRAM_AUTOMATIC"
	EventStopAll          = "STOP_ALL"
	EventError            = "ERROR"
)

// PanelEvent is a single entry of the panel activity log.
type PanelEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}

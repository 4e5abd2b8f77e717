package models

import "time"

// Zone visibility values used in user_settings.json.
const (
	ZoneStatusShow = "show"
	ZoneStatusHide = "hide"
)

// Zone is a configured irrigation zone as listed in the device user settings.
type Zone struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"` // show | hide
}

// Visible reports whether the zone should be rendered on the manual page.
func (z Zone) Visible() bool { return z.Status == ZoneStatusShow }

// ZoneStatus is one entry of GET /get_zones_status.
type ZoneStatus struct {
	ID            int    `json:"id"`
	Name          string `json:"name,omitempty"`
	Active        bool   `json:"active"`
	RemainingTime int    `json:"remaining_time"` // seconds
}

// UserSettings mirrors /data/user_settings.json. Unknown keys are ignored.
type UserSettings struct {
	Zones           []Zone `json:"zones"`
	MaxZoneDuration int    `json:"max_zone_duration,omitempty"` // minutes
	MaxActiveZones  int    `json:"max_active_zones,omitempty"`
}

// ZoneCard is the rendered state of one zone on the manual page.
type ZoneCard struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	Active          bool   `json:"active"`
	Checked         bool   `json:"checked"`
	Disabled        bool   `json:"disabled"`
	Busy            bool   `json:"busy"`
	DurationLocked  bool   `json:"duration_locked"`
	DurationMinutes int    `json:"duration_minutes"`
	Progress        int    `json:"progress"`  // 0..100
	Countdown       string `json:"countdown"` // MM:SS
}

// ManualPage is the full manual-control view.
type ManualPage struct {
	Zones           []ZoneCard `json:"zones"`
	ManualDisabled  bool       `json:"manual_disabled"`
	MaxZoneDuration int        `json:"max_zone_duration"`
	MaxActiveZones  int        `json:"max_active_zones"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

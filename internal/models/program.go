package models

// ProgramStep is one zone run inside a program.
type ProgramStep struct {
	ZoneID   int `json:"zone_id"`
	Duration int `json:"duration"` // minutes
}

// Program is an irrigation program as stored in /data/program.json.
type Program struct {
	ID               string        `json:"id,omitempty"`
	Name             string        `json:"name"`
	Steps            []ProgramStep `json:"steps"`
	Months           []string      `json:"months"`
	Recurrence       string        `json:"recurrence"`
	IntervalDays     int           `json:"interval_days,omitempty"`
	ActivationTime   string        `json:"activation_time"`
	LastRunDate      string        `json:"last_run_date,omitempty"`
	AutomaticEnabled *bool         `json:"automatic_enabled,omitempty"`
}

// Automatic reports whether automatic activation is on; absent means enabled.
func (p Program) Automatic() bool {
	return p.AutomaticEnabled == nil || *p.AutomaticEnabled
}

// StepFor returns the step that waters the given zone.
func (p Program) StepFor(zoneID int) (ProgramStep, bool) {
	for _, s := range p.Steps {
		if s.ZoneID == zoneID {
			return s, true
		}
	}
	return ProgramStep{}, false
}

// ActiveZone is the zone currently watered by a running program.
type ActiveZone struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	RemainingTime int    `json:"remaining_time"` // seconds
}

// ProgramState is the response of GET /get_program_state.
type ProgramState struct {
	ProgramRunning   bool        `json:"program_running"`
	CurrentProgramID string      `json:"current_program_id"`
	ActiveZone       *ActiveZone `json:"active_zone,omitempty"`
}

// IsRunning reports whether the given program is the one running.
func (s ProgramState) IsRunning(programID string) bool {
	return s.ProgramRunning && s.CurrentProgramID == programID
}

// MonthTag is one cell of the months grid on a program card.
type MonthTag struct {
	Name   string `json:"name"`
	Short  string `json:"short"`
	Active bool   `json:"active"`
}

// ZoneTag is one step of a program as displayed on its card.
type ZoneTag struct {
	ZoneID   int    `json:"zone_id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"` // minutes
}

// RunningStatus describes the active zone of the running program.
type RunningStatus struct {
	ZoneName  string `json:"zone_name"`
	Remaining string `json:"remaining"` // M:SS
	Progress  int    `json:"progress"`  // 0..100
}

// ProgramCard is the rendered view of one program.
type ProgramCard struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	ActivationTime string         `json:"activation_time"`
	Recurrence     string         `json:"recurrence"`
	LastRun        string         `json:"last_run"`
	Months         []MonthTag     `json:"months"`
	Zones          []ZoneTag      `json:"zones"`
	Automatic      bool           `json:"automatic"`
	Active         bool           `json:"active"`
	StartEnabled   bool           `json:"start_enabled"`
	StopEnabled    bool           `json:"stop_enabled"`
	Running        *RunningStatus `json:"running,omitempty"`
}

// ProgramsPage is the full program-list view.
type ProgramsPage struct {
	Programs []ProgramCard `json:"programs"`
	State    ProgramState  `json:"state"`
}

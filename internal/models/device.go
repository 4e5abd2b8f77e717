package models

import "time"

// Connection modes reported by GET /get_connection_status.
const (
	ConnectionClient = "client"
	ConnectionAP     = "AP"
)

// ConnectionStatus describes the device network link.
type ConnectionStatus struct {
	Mode string `json:"mode"`
	SSID string `json:"ssid,omitempty"`
	IP   string `json:"ip,omitempty"`
}

// ActionResult is the body returned by every device POST endpoint.
type ActionResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Snapshot is the last state observed from the device.
type Snapshot struct {
	Zones        []ZoneStatus `json:"zones"`
	ProgramState ProgramState `json:"program_state"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

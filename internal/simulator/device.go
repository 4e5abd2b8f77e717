package simulator

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"irrigation_panel/internal/logger"
	"irrigation_panel/internal/models"
)

// Refusals returned to the panel as {"success": false, "error": ...}.
var (
	ErrUnknownZone      = errors.New("zone not found")
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrTooManyZones     = errors.New("maximum number of active zones reached")
	ErrProgramActive    = errors.New("a program is running")
	ErrUnknownProgram   = errors.New("program not found")
	ErrNoProgramRunning = errors.New("no program is running")
	ErrEmptyProgram     = errors.New("program has no steps")
)

// Seed is the initial content of the simulated device files.
type Seed struct {
	UserSettings models.UserSettings       `json:"user_settings"`
	Programs     map[string]models.Program `json:"programs"`
	Connection   models.ConnectionStatus   `json:"connection"`
}

// DefaultSeed is a four-zone garden with two programs.
func DefaultSeed() Seed {
	return Seed{
		UserSettings: models.UserSettings{
			Zones: []models.Zone{
				{ID: 0, Name: "Front lawn", Status: models.ZoneStatusShow},
				{ID: 1, Name: "Back lawn", Status: models.ZoneStatusShow},
				{ID: 2, Name: "Vegetable garden", Status: models.ZoneStatusShow},
				{ID: 3, Name: "", Status: models.ZoneStatusHide},
			},
			MaxZoneDuration: 180,
			MaxActiveZones:  3,
		},
		Programs: map[string]models.Program{
			"1": {
				ID:             "1",
				Name:           "Morning",
				Steps:          []models.ProgramStep{{ZoneID: 0, Duration: 10}, {ZoneID: 1, Duration: 8}},
				Months:         []string{"Aprile", "Maggio", "Giugno", "Luglio", "Agosto", "Settembre"},
				Recurrence:     "giornaliero",
				ActivationTime: "06:00",
			},
			"2": {
				ID:             "2",
				Name:           "Vegetables",
				Steps:          []models.ProgramStep{{ZoneID: 2, Duration: 15}},
				Months:         []string{"Giugno", "Luglio", "Agosto"},
				Recurrence:     "personalizzata",
				IntervalDays:   3,
				ActivationTime: "20:30",
			},
		},
		Connection: models.ConnectionStatus{Mode: models.ConnectionClient, SSID: "garden-wifi", IP: "192.168.1.50"},
	}
}

// LoadSeed reads a Seed from a JSON file; an empty path yields DefaultSeed.
func LoadSeed(path string) (Seed, error) {
	if path == "" {
		return DefaultSeed(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed %q: %w", path, err)
	}
	var s Seed
	if err := json.Unmarshal(b, &s); err != nil {
		return Seed{}, fmt.Errorf("decode seed %q: %w", path, err)
	}
	if s.Programs == nil {
		s.Programs = map[string]models.Program{}
	}
	return s, nil
}

// programRun tracks the step a running program is on.
type programRun struct {
	id   string
	step int
}

// Device is an in-memory irrigation controller. Zones count down in whole
// seconds as Advance is called.
type Device struct {
	log *logger.Logger
	now func() time.Time

	mu        sync.Mutex
	settings  models.UserSettings
	programs  map[string]models.Program
	conn      models.ConnectionStatus
	remaining map[int]int // zone id -> seconds left; absent means idle
	running   *programRun
	carry     time.Duration
}

func New(seed Seed, log *logger.Logger) *Device {
	if log == nil {
		log = logger.Nop()
	}
	if seed.UserSettings.MaxZoneDuration <= 0 {
		seed.UserSettings.MaxZoneDuration = 180
	}
	if seed.UserSettings.MaxActiveZones <= 0 {
		seed.UserSettings.MaxActiveZones = 3
	}
	programs := make(map[string]models.Program, len(seed.Programs))
	for id, p := range seed.Programs {
		p.ID = id
		programs[id] = p
	}
	return &Device{
		log:       log,
		now:       time.Now,
		settings:  seed.UserSettings,
		programs:  programs,
		conn:      seed.Connection,
		remaining: map[int]int{},
	}
}

func (d *Device) UserSettings() models.UserSettings {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.settings
	s.Zones = append([]models.Zone(nil), d.settings.Zones...)
	return s
}

func (d *Device) Programs() map[string]models.Program {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[string]models.Program, len(d.programs))
	for id, p := range d.programs {
		out[id] = p
	}
	return out
}

func (d *Device) Connection() models.ConnectionStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.conn
}

// ZonesStatus lists every configured zone, hidden ones included.
func (d *Device) ZonesStatus() []models.ZoneStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]models.ZoneStatus, 0, len(d.settings.Zones))
	for _, z := range d.settings.Zones {
		left, active := d.remaining[z.ID]
		out = append(out, models.ZoneStatus{ID: z.ID, Name: z.Name, Active: active, RemainingTime: left})
	}
	return out
}

func (d *Device) ProgramState() models.ProgramState {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running == nil {
		return models.ProgramState{}
	}
	st := models.ProgramState{ProgramRunning: true, CurrentProgramID: d.running.id}
	p := d.programs[d.running.id]
	if d.running.step < len(p.Steps) {
		zid := p.Steps[d.running.step].ZoneID
		st.ActiveZone = &models.ActiveZone{ID: zid, Name: d.zoneNameLocked(zid), RemainingTime: d.remaining[zid]}
	}
	return st
}

// StartZone opens a zone for minutes. Manual starts are refused while a
// program runs and when max_active_zones are already open.
func (d *Device) StartZone(zoneID, minutes int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.hasZoneLocked(zoneID) {
		return ErrUnknownZone
	}
	if minutes < 1 || minutes > d.settings.MaxZoneDuration {
		return fmt.Errorf("%w: must be between 1 and %d minutes", ErrInvalidDuration, d.settings.MaxZoneDuration)
	}
	if d.running != nil {
		return ErrProgramActive
	}
	if _, open := d.remaining[zoneID]; !open && len(d.remaining) >= d.settings.MaxActiveZones {
		return ErrTooManyZones
	}
	d.remaining[zoneID] = minutes * 60
	d.log.Infow("sim_zone_started", "zone_id", zoneID, "minutes", minutes)
	return nil
}

func (d *Device) StopZone(zoneID int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.hasZoneLocked(zoneID) {
		return ErrUnknownZone
	}
	if d.running != nil {
		return ErrProgramActive
	}
	delete(d.remaining, zoneID)
	d.log.Infow("sim_zone_stopped", "zone_id", zoneID)
	return nil
}

// StartProgram stops manual zones and runs the program's steps in order.
func (d *Device) StartProgram(programID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.programs[programID]
	if !ok {
		return ErrUnknownProgram
	}
	if len(p.Steps) == 0 {
		return ErrEmptyProgram
	}
	if d.running != nil {
		return ErrProgramActive
	}
	d.remaining = map[int]int{}
	d.running = &programRun{id: programID}
	d.openStepLocked()
	d.log.Infow("sim_program_started", "program_id", programID)
	return nil
}

// StopProgram halts the running program and closes every zone.
func (d *Device) StopProgram() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.running = nil
	d.remaining = map[int]int{}
	d.log.Infow("sim_all_stopped")
	return nil
}

func (d *Device) DeleteProgram(programID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.programs[programID]; !ok {
		return ErrUnknownProgram
	}
	if d.running != nil && d.running.id == programID {
		return ErrProgramActive
	}
	delete(d.programs, programID)
	return nil
}

func (d *Device) ToggleAutomatic(programID string, enable bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.programs[programID]
	if !ok {
		return ErrUnknownProgram
	}
	p.AutomaticEnabled = &enable
	d.programs[programID] = p
	return nil
}

// Advance moves the clock forward by elapsed. Finished zones close and a
// running program moves to its next step.
func (d *Device) Advance(elapsed time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.carry += elapsed
	secs := int(d.carry / time.Second)
	d.carry -= time.Duration(secs) * time.Second

	for ; secs > 0; secs-- {
		if len(d.remaining) == 0 {
			break
		}
		for _, id := range d.sortedOpenLocked() {
			d.remaining[id]--
			if d.remaining[id] <= 0 {
				delete(d.remaining, id)
				d.log.Infow("sim_zone_finished", "zone_id", id)
			}
		}
		d.advanceProgramLocked()
	}
}

func (d *Device) advanceProgramLocked() {
	if d.running == nil {
		return
	}
	p := d.programs[d.running.id]
	if d.running.step < len(p.Steps) {
		if _, open := d.remaining[p.Steps[d.running.step].ZoneID]; open {
			return
		}
	}
	d.running.step++
	if d.running.step < len(p.Steps) {
		d.openStepLocked()
		return
	}
	p.LastRunDate = d.now().Format("2006-01-02")
	d.programs[d.running.id] = p
	d.log.Infow("sim_program_finished", "program_id", d.running.id)
	d.running = nil
}

func (d *Device) openStepLocked() {
	p := d.programs[d.running.id]
	step := p.Steps[d.running.step]
	minutes := step.Duration
	if minutes < 1 {
		minutes = 1
	}
	d.remaining[step.ZoneID] = minutes * 60
}

func (d *Device) sortedOpenLocked() []int {
	ids := make([]int, 0, len(d.remaining))
	for id := range d.remaining {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (d *Device) hasZoneLocked(zoneID int) bool {
	for _, z := range d.settings.Zones {
		if z.ID == zoneID {
			return true
		}
	}
	return false
}

func (d *Device) zoneNameLocked(zoneID int) string {
	for _, z := range d.settings.Zones {
		if z.ID == zoneID {
			return z.Name
		}
	}
	return ""
}

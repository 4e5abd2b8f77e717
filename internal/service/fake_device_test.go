package service

import (
	"context"
	"errors"
	"sync"

	"irrigation_panel/internal/device"
	"irrigation_panel/internal/models"
)

// fakeDevice is an in-memory Device with scripted responses.
type fakeDevice struct {
	mu sync.Mutex

	settings    models.UserSettings
	settingsErr error
	programs    map[string]models.Program
	programsErr error
	zones       []models.ZoneStatus
	zonesErr    error
	state       models.ProgramState
	stateErr    error
	conn        models.ConnectionStatus
	connErr     error

	// actionErrs pops one error per action call; nil when empty.
	actionErrs []error

	// gate, when set, holds program start/stop calls until it is closed.
	// entered receives once per held call.
	gate    chan struct{}
	entered chan struct{}

	startZoneCalls    []int
	stopZoneCalls     []int
	startProgramCalls int
	stopProgramCalls  int
	deleteCalls       []string
	toggleCalls       []bool
	stateCalls        int
}

func (f *fakeDevice) nextErr() error {
	if len(f.actionErrs) == 0 {
		return nil
	}
	err := f.actionErrs[0]
	f.actionErrs = f.actionErrs[1:]
	return err
}

func (f *fakeDevice) UserSettings(context.Context) (models.UserSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings, f.settingsErr
}

func (f *fakeDevice) Programs(context.Context) (map[string]models.Program, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]models.Program, len(f.programs))
	for k, v := range f.programs {
		out[k] = v
	}
	return out, f.programsErr
}

func (f *fakeDevice) ZonesStatus(context.Context) ([]models.ZoneStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ZoneStatus(nil), f.zones...), f.zonesErr
}

func (f *fakeDevice) ProgramState(context.Context) (models.ProgramState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stateCalls++
	return f.state, f.stateErr
}

func (f *fakeDevice) ConnectionStatus(context.Context) (models.ConnectionStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.conn, f.connErr
}

func (f *fakeDevice) StartZone(_ context.Context, zoneID, minutes int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startZoneCalls = append(f.startZoneCalls, zoneID)
	return f.nextErr()
}

func (f *fakeDevice) StopZone(_ context.Context, zoneID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopZoneCalls = append(f.stopZoneCalls, zoneID)
	return f.nextErr()
}

func (f *fakeDevice) StartProgram(context.Context, string) error {
	f.mu.Lock()
	f.startProgramCalls++
	err := f.nextErr()
	f.mu.Unlock()
	f.hold()
	return err
}

func (f *fakeDevice) StopProgram(context.Context) error {
	f.mu.Lock()
	f.stopProgramCalls++
	err := f.nextErr()
	f.mu.Unlock()
	f.hold()
	return err
}

func (f *fakeDevice) hold() {
	f.mu.Lock()
	gate, entered := f.gate, f.entered
	f.mu.Unlock()
	if gate == nil {
		return
	}
	if entered != nil {
		entered <- struct{}{}
	}
	<-gate
}

func (f *fakeDevice) DeleteProgram(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	return f.nextErr()
}

func (f *fakeDevice) ToggleProgramAutomatic(_ context.Context, _ string, enable bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.toggleCalls = append(f.toggleCalls, enable)
	return f.nextErr()
}

func (f *fakeDevice) setState(st models.ProgramState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = st
}

func netErr(path string) error {
	return &device.NetworkError{Path: path, Err: errors.New("connection refused")}
}

func boolPtr(b bool) *bool { return &b }

// fakeEvents captures recorded events.
type fakeEvents struct {
	mu     sync.Mutex
	events []models.PanelEvent
}

func (f *fakeEvents) Record(_ context.Context, e models.PanelEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEvents) List(context.Context, LogFilter) ([]models.PanelEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.PanelEvent(nil), f.events...), nil
}

func (f *fakeEvents) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.Type)
	}
	return out
}

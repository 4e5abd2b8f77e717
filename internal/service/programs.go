package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"irrigation_panel/internal/device"
	"irrigation_panel/internal/logger"
	"irrigation_panel/internal/models"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc"
)

const (
	defaultProgramNormal     = 5 * time.Second
	defaultProgramRunning    = time.Second
	defaultProgramFast       = time.Second
	defaultAccelerateFor     = 15 * time.Second
	defaultHiddenMultiplier  = 2
	defaultProgramRetries    = 3
	defaultProgramRetryDelay = 500 * time.Millisecond
)

// ProgramConfig tunes program polling and the start/stop retry policy.
type ProgramConfig struct {
	Normal           time.Duration
	Running          time.Duration
	Fast             time.Duration
	AccelerateFor    time.Duration
	HiddenMultiplier int
	Retries          int
	RetryDelay       time.Duration
}

func (c *ProgramConfig) withDefaults() {
	if c.Normal <= 0 {
		c.Normal = defaultProgramNormal
	}
	if c.Running <= 0 {
		c.Running = defaultProgramRunning
	}
	if c.Fast <= 0 {
		c.Fast = defaultProgramFast
	}
	if c.AccelerateFor <= 0 {
		c.AccelerateFor = defaultAccelerateFor
	}
	if c.HiddenMultiplier < 1 {
		c.HiddenMultiplier = defaultHiddenMultiplier
	}
	if c.Retries <= 0 {
		c.Retries = defaultProgramRetries
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = defaultProgramRetryDelay
	}
}

// ProgramService drives the program list page.
type ProgramService struct {
	device   Device
	notifier Notifier
	events   EventLog
	log      *logger.Logger
	cfg      ProgramConfig
	now      func() time.Time

	// busy admits one program start/stop at a time.
	busy       atomic.Bool
	reschedule chan struct{}

	mu           sync.Mutex
	programs     map[string]models.Program
	loaded       bool
	zoneNames    map[int]string
	state        models.ProgramState
	pending      Pending
	accelUntil   time.Time
	hidden       bool
	afterStopAll []func(ctx context.Context)
}

func NewProgramService(dev Device, notifier Notifier, events EventLog, log *logger.Logger, cfg ProgramConfig) *ProgramService {
	cfg.withDefaults()
	if log == nil {
		log = logger.Nop()
	}
	return &ProgramService{
		device:     dev,
		notifier:   notifier,
		events:     events,
		log:        log,
		cfg:        cfg,
		now:        time.Now,
		reschedule: make(chan struct{}, 1),
		programs:   map[string]models.Program{},
		zoneNames:  map[int]string{},
	}
}

// AfterStopAll registers fn to run after a successful stop-all.
func (s *ProgramService) AfterStopAll(fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.afterStopAll = append(s.afterStopAll, fn)
}

// LoadPrograms replaces the program cache with the device's program file and
// refreshes the zone names shown on cards.
func (s *ProgramService) LoadPrograms(ctx context.Context) error {
	var (
		wg          conc.WaitGroup
		programs    map[string]models.Program
		settings    models.UserSettings
		progErr     error
		settingsErr error
	)
	wg.Go(func() { programs, progErr = s.device.Programs(ctx) })
	wg.Go(func() { settings, settingsErr = s.device.UserSettings(ctx) })
	wg.Wait()

	if progErr != nil {
		s.log.Errorw("programs_load_failed", "err", progErr)
		s.notifier.Show("Failed to load programs", models.ToastError, 0)
		return fmt.Errorf("load programs: %w", progErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs = programs
	s.loaded = true
	if settingsErr != nil {
		// cards fall back to "Zone N" labels
		s.log.Warnw("programs_zone_names_failed", "err", settingsErr)
		return nil
	}
	s.zoneNames = lo.Associate(settings.Zones, func(z models.Zone) (int, string) { return z.ID, z.Name })
	return nil
}

// ProgramsPage loads the cache on first use, refreshes the program state and
// renders the cards.
func (s *ProgramService) ProgramsPage(ctx context.Context) (models.ProgramsPage, error) {
	s.mu.Lock()
	loaded := s.loaded
	s.mu.Unlock()
	if !loaded {
		if err := s.LoadPrograms(ctx); err != nil {
			return models.ProgramsPage{}, err
		}
	}
	_ = s.RefreshProgramState(ctx)
	return s.ProgramsView(), nil
}

// ProgramsView renders the cached programs and last known state.
func (s *ProgramService) ProgramsView() models.ProgramsPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.ProgramsPage{
		Programs: RenderCards(s.programs, s.zoneNames, s.state, s.pending),
		State:    s.state,
	}
}

// RefreshProgramState fetches /get_program_state and applies running-state
// transitions to the poll schedule. A failed fetch keeps the last known state.
func (s *ProgramService) RefreshProgramState(ctx context.Context) error {
	st, err := s.device.ProgramState(ctx)
	if err != nil {
		s.log.Debugw("program_state_failed", "err", err)
		return fmt.Errorf("program state: %w", err)
	}

	s.mu.Lock()
	was := s.state.ProgramRunning
	s.state = st
	finished := false
	switch {
	case !was && st.ProgramRunning:
		s.accelUntil = s.now().Add(s.cfg.AccelerateFor)
	case was && !st.ProgramRunning:
		s.accelUntil = time.Time{}
		finished = true
	}
	s.mu.Unlock()

	if was != st.ProgramRunning {
		s.log.Infow("program_running_changed", "running", st.ProgramRunning, "program_id", st.CurrentProgramID)
		s.signal()
	}
	if finished {
		// last run dates moved
		_ = s.LoadPrograms(ctx)
	}
	return nil
}

// PollInterval is the delay until the next program state poll.
func (s *ProgramService) PollInterval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intervalLocked()
}

func (s *ProgramService) intervalLocked() time.Duration {
	d := s.cfg.Normal
	switch {
	case !s.accelUntil.IsZero() && s.now().Before(s.accelUntil):
		d = s.cfg.Fast
	case s.state.ProgramRunning:
		d = s.cfg.Running
	}
	if s.hidden {
		d *= time.Duration(s.cfg.HiddenMultiplier)
	}
	return d
}

// SetHidden records whether the panel is in the background.
func (s *ProgramService) SetHidden(hidden bool) {
	s.mu.Lock()
	changed := s.hidden != hidden
	s.hidden = hidden
	s.mu.Unlock()
	if changed {
		s.signal()
	}
}

// track marks p in flight until the returned func runs.
func (s *ProgramService) track(p Pending) func() {
	s.mu.Lock()
	s.pending = p
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		s.pending = Pending{}
		s.mu.Unlock()
	}
}

func (s *ProgramService) accelerate() {
	s.mu.Lock()
	s.accelUntil = s.now().Add(s.cfg.AccelerateFor)
	s.mu.Unlock()
	s.signal()
}

func (s *ProgramService) signal() {
	select {
	case s.reschedule <- struct{}{}:
	default:
	}
}

// PollPrograms polls the program state on an adaptive schedule until ctx is
// canceled. A single timer is re-armed on every schedule change.
func (s *ProgramService) PollPrograms(ctx context.Context) {
	_ = s.RefreshProgramState(ctx)

	timer := time.NewTimer(s.PollInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			_ = s.RefreshProgramState(ctx)
		case <-s.reschedule:
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
		}
		timer.Reset(s.PollInterval())
	}
}

// StartProgram starts programID, retrying network failures.
func (s *ProgramService) StartProgram(ctx context.Context, programID string) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrActionInFlight
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	p, known := s.programs[programID]
	loaded := s.loaded
	s.mu.Unlock()
	if loaded && !known {
		return fmt.Errorf("%w: %s", ErrProgramNotFound, programID)
	}
	defer s.track(Pending{Action: PendingStart, ProgramID: programID})()

	err := device.Retry(ctx, s.cfg.Retries, s.cfg.RetryDelay, func(ctx context.Context) error {
		return s.device.StartProgram(ctx, programID)
	})
	if err != nil {
		s.actionFailed(ctx, "program_start_failed", "Program start failed", err, "program_id", programID)
		return fmt.Errorf("start program %s: %w", programID, err)
	}

	s.log.Infow("program_started", "program_id", programID)
	s.notifier.Show(fmt.Sprintf("Program %q started", programLabel(p, programID)), models.ToastSuccess, 0)
	recordEvent(ctx, s.events, s.log, models.EventProgramStart, fmt.Sprintf("Program %s started", programID), map[string]any{"program_id": programID})
	s.accelerate()
	_ = s.RefreshProgramState(ctx)
	return nil
}

// StopProgram stops the running program, retrying network failures.
func (s *ProgramService) StopProgram(ctx context.Context) error {
	if !s.busy.CompareAndSwap(false, true) {
		return ErrActionInFlight
	}
	defer s.busy.Store(false)
	defer s.track(Pending{Action: PendingStop})()

	err := device.Retry(ctx, s.cfg.Retries, s.cfg.RetryDelay, s.device.StopProgram)
	if err != nil {
		s.actionFailed(ctx, "program_stop_failed", "Program stop failed", err)
		return fmt.Errorf("stop program: %w", err)
	}

	s.log.Infow("program_stopped")
	s.notifier.Show("Program stopped", models.ToastSuccess, 0)
	recordEvent(ctx, s.events, s.log, models.EventProgramStop, "Program stopped", nil)
	_ = s.RefreshProgramState(ctx)
	return nil
}

// StopAll halts the running program and every manual zone.
func (s *ProgramService) StopAll(ctx context.Context) error {
	if err := s.device.StopProgram(ctx); err != nil {
		s.actionFailed(ctx, "stop_all_failed", "Stop all failed", err)
		return fmt.Errorf("stop all: %w", err)
	}

	s.log.Infow("stop_all")
	s.notifier.Show("All zones stopped", models.ToastSuccess, 0)
	recordEvent(ctx, s.events, s.log, models.EventStopAll, "All zones stopped", nil)
	_ = s.RefreshProgramState(ctx)

	s.mu.Lock()
	hooks := append([]func(context.Context){}, s.afterStopAll...)
	s.mu.Unlock()
	for _, fn := range hooks {
		fn(ctx)
	}
	return nil
}

// DeleteProgram removes programID from the device and the cache.
func (s *ProgramService) DeleteProgram(ctx context.Context, programID string) error {
	if err := s.device.DeleteProgram(ctx, programID); err != nil {
		s.actionFailed(ctx, "program_delete_failed", "Program deletion failed", err, "program_id", programID)
		return fmt.Errorf("delete program %s: %w", programID, err)
	}

	s.mu.Lock()
	delete(s.programs, programID)
	s.mu.Unlock()

	s.log.Infow("program_deleted", "program_id", programID)
	s.notifier.Show("Program deleted", models.ToastSuccess, 0)
	recordEvent(ctx, s.events, s.log, models.EventProgramDelete, fmt.Sprintf("Program %s deleted", programID), map[string]any{"program_id": programID})
	return nil
}

// ToggleAutomatic flips automatic activation. The card changes at once and
// reverts when the device refuses. Before the cache is loaded the request is
// sent as is and nothing is flipped.
func (s *ProgramService) ToggleAutomatic(ctx context.Context, programID string, enable bool) error {
	s.mu.Lock()
	p, ok := s.programs[programID]
	if s.loaded && !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrProgramNotFound, programID)
	}
	prev := p.AutomaticEnabled
	if ok {
		p.AutomaticEnabled = &enable
		s.programs[programID] = p
	}
	s.mu.Unlock()

	if err := s.device.ToggleProgramAutomatic(ctx, programID, enable); err != nil {
		if ok {
			s.mu.Lock()
			if cur, found := s.programs[programID]; found {
				cur.AutomaticEnabled = prev
				s.programs[programID] = cur
			}
			s.mu.Unlock()
		}
		s.actionFailed(ctx, "program_automatic_failed", "Automatic toggle failed", err, "program_id", programID)
		return fmt.Errorf("toggle automatic %s: %w", programID, err)
	}

	state := "disabled"
	if enable {
		state = "enabled"
	}
	s.notifier.Show("Automatic activation "+state, models.ToastSuccess, 0)
	recordEvent(ctx, s.events, s.log, models.EventProgramAutomatic, fmt.Sprintf("Program %s automatic %s", programID, state), map[string]any{"program_id": programID, "enable": enable})
	return nil
}

func (s *ProgramService) actionFailed(ctx context.Context, logKey, fallback string, err error, kv ...interface{}) {
	s.log.Errorw(logKey, append([]interface{}{"err", err}, kv...)...)
	s.notifier.Show(failureMessage(err, fallback), models.ToastError, 0)
	recordEvent(ctx, s.events, s.log, models.EventError, fallback, map[string]any{"err": err.Error()})
}

func programLabel(p models.Program, id string) string {
	if p.Name != "" {
		return p.Name
	}
	return id
}

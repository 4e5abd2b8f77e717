package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"irrigation_panel/internal/logger"
	"irrigation_panel/internal/models"
	"irrigation_panel/internal/repository"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc"
)

const (
	defaultZonePollInterval = 3 * time.Second
	defaultMaxZoneDuration  = 180 // minutes
	defaultMaxActiveZones   = 3
	defaultDurationInput    = 10 // minutes
	timerTick               = time.Second
)

// ZoneConfig tunes the manual page.
type ZoneConfig struct {
	PollInterval time.Duration
}

// zoneControl is the toggle + duration input pair of one zone card.
type zoneControl struct {
	checked        bool
	busy           bool
	durationLocked bool
	durationInput  int
}

// ZoneService drives the manual-control page.
type ZoneService struct {
	device    Device
	notifier  Notifier
	events    EventLog
	snapshots repository.SnapshotRepo
	log       *logger.Logger
	cfg       ZoneConfig
	timers    *ZoneTimers
	now       func() time.Time

	mu             sync.Mutex
	settings       models.UserSettings
	settingsLoaded bool
	controls       map[int]*zoneControl
	status         map[int]models.ZoneStatus
	manualDisabled bool
	updatedAt      time.Time
}

func NewZoneService(dev Device, notifier Notifier, events EventLog, snapshots repository.SnapshotRepo, log *logger.Logger, cfg ZoneConfig) *ZoneService {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultZonePollInterval
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ZoneService{
		device:    dev,
		notifier:  notifier,
		events:    events,
		snapshots: snapshots,
		log:       log,
		cfg:       cfg,
		timers:    NewZoneTimers(nil),
		now:       time.Now,
		controls:  map[int]*zoneControl{},
		status:    map[int]models.ZoneStatus{},
	}
}

// Timers exposes the local countdowns.
func (s *ZoneService) Timers() *ZoneTimers { return s.timers }

// LoadSettings fetches the zone list and limits from the device.
func (s *ZoneService) LoadSettings(ctx context.Context) error {
	settings, err := s.device.UserSettings(ctx)
	if err != nil {
		s.log.Errorw("zones_load_settings_failed", "err", err)
		s.notifier.Show("Failed to load settings", models.ToastError, 0)
		return fmt.Errorf("load user settings: %w", err)
	}
	if settings.MaxZoneDuration <= 0 {
		settings.MaxZoneDuration = defaultMaxZoneDuration
	}
	if settings.MaxActiveZones <= 0 {
		settings.MaxActiveZones = defaultMaxActiveZones
	}

	s.mu.Lock()
	s.settings = settings
	s.settingsLoaded = true
	s.mu.Unlock()
	return nil
}

// ManualPage loads settings on first use and renders the zone cards.
func (s *ZoneService) ManualPage(ctx context.Context) (models.ManualPage, error) {
	s.mu.Lock()
	loaded := s.settingsLoaded
	s.mu.Unlock()
	if !loaded {
		if err := s.LoadSettings(ctx); err != nil {
			return models.ManualPage{}, err
		}
	}
	return s.ManualView(), nil
}

// ManualView renders the cached state without contacting the device.
func (s *ZoneService) ManualView() models.ManualPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	visible := lo.Filter(s.settings.Zones, func(z models.Zone, _ int) bool { return z.Visible() })
	cards := lo.Map(visible, func(z models.Zone, _ int) models.ZoneCard {
		ctl := s.controlLocked(z.ID)
		progress, countdown := s.timers.View(z.ID)
		return models.ZoneCard{
			ID:              z.ID,
			Name:            zoneName(z.ID, z.Name),
			Active:          s.status[z.ID].Active,
			Checked:         ctl.checked,
			Disabled:        s.manualDisabled || ctl.busy,
			Busy:            ctl.busy,
			DurationLocked:  s.manualDisabled || ctl.busy || ctl.durationLocked,
			DurationMinutes: ctl.durationInput,
			Progress:        progress,
			Countdown:       countdown,
		}
	})
	return models.ManualPage{
		Zones:           cards,
		ManualDisabled:  s.manualDisabled,
		MaxZoneDuration: s.maxZoneDurationLocked(),
		MaxActiveZones:  s.maxActiveZonesLocked(),
		UpdatedAt:       s.updatedAt,
	}
}

// SetDurationInput records the value typed in a zone's duration field.
func (s *ZoneService) SetDurationInput(zoneID, minutes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.controlLocked(zoneID).durationInput = minutes
}

// StartZone waters zoneID for minutes. Durations outside
// [1, max_zone_duration] never reach the device.
func (s *ZoneService) StartZone(ctx context.Context, zoneID, minutes int) error {
	s.mu.Lock()
	maxMinutes := s.maxZoneDurationLocked()
	if minutes < 1 || minutes > maxMinutes {
		s.mu.Unlock()
		s.notifier.Show(fmt.Sprintf("Enter a valid duration between 1 and %d minutes", maxMinutes), models.ToastWarning, 0)
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidDuration, minutes, maxMinutes)
	}
	if s.manualDisabled {
		s.mu.Unlock()
		return ErrManualDisabled
	}
	ctl := s.controlLocked(zoneID)
	if ctl.busy {
		s.mu.Unlock()
		return ErrActionInFlight
	}
	prevChecked := ctl.checked
	ctl.checked = true
	ctl.busy = true
	ctl.durationInput = minutes
	s.mu.Unlock()

	err := s.device.StartZone(ctx, zoneID, minutes)

	s.mu.Lock()
	ctl.busy = false
	if err != nil {
		ctl.checked = prevChecked
		s.mu.Unlock()
		s.actionFailed(ctx, "zone_start_failed", "Zone activation failed", err, "zone_id", zoneID, "duration", minutes)
		return fmt.Errorf("start zone %d: %w", zoneID, err)
	}
	ctl.durationLocked = true
	st := s.status[zoneID]
	st.ID, st.Active, st.RemainingTime = zoneID, true, minutes*60
	s.status[zoneID] = st
	s.timers.Start(zoneID, minutes*60)
	s.mu.Unlock()

	s.log.Infow("zone_started", "zone_id", zoneID, "duration", minutes)
	s.notifier.Show(fmt.Sprintf("Zone %d started for %d minutes", zoneID+1, minutes), models.ToastSuccess, 0)
	s.record(ctx, models.EventZoneStart, fmt.Sprintf("Zone %d started", zoneID+1), map[string]any{"zone_id": zoneID, "duration": minutes})
	_ = s.RefreshZones(ctx)
	return nil
}

// StopZone stops zoneID. On failure the toggle goes back to its prior state.
func (s *ZoneService) StopZone(ctx context.Context, zoneID int) error {
	s.mu.Lock()
	if s.manualDisabled {
		s.mu.Unlock()
		return ErrManualDisabled
	}
	ctl := s.controlLocked(zoneID)
	if ctl.busy {
		s.mu.Unlock()
		return ErrActionInFlight
	}
	prevChecked := ctl.checked
	ctl.checked = false
	ctl.busy = true
	s.mu.Unlock()

	err := s.device.StopZone(ctx, zoneID)

	s.mu.Lock()
	ctl.busy = false
	if err != nil {
		ctl.checked = prevChecked
		s.mu.Unlock()
		s.actionFailed(ctx, "zone_stop_failed", "Zone deactivation failed", err, "zone_id", zoneID)
		return fmt.Errorf("stop zone %d: %w", zoneID, err)
	}
	ctl.durationLocked = false
	st := s.status[zoneID]
	st.ID, st.Active, st.RemainingTime = zoneID, false, 0
	s.status[zoneID] = st
	s.timers.Stop(zoneID)
	s.mu.Unlock()

	s.log.Infow("zone_stopped", "zone_id", zoneID)
	s.notifier.Show(fmt.Sprintf("Zone %d stopped", zoneID+1), models.ToastInfo, 0)
	s.record(ctx, models.EventZoneStop, fmt.Sprintf("Zone %d stopped", zoneID+1), map[string]any{"zone_id": zoneID})
	_ = s.RefreshZones(ctx)
	return nil
}

// RefreshZones polls zone and program state together and reconciles the
// local view with it. Nothing changes when either request fails.
func (s *ZoneService) RefreshZones(ctx context.Context) error {
	var (
		wg       conc.WaitGroup
		zones    []models.ZoneStatus
		state    models.ProgramState
		zonesErr error
		stateErr error
	)
	wg.Go(func() { zones, zonesErr = s.device.ZonesStatus(ctx) })
	wg.Go(func() { state, stateErr = s.device.ProgramState(ctx) })
	wg.Wait()

	if zonesErr != nil {
		s.log.Debugw("zones_status_failed", "err", zonesErr)
		return fmt.Errorf("zones status: %w", zonesErr)
	}
	if stateErr != nil {
		s.log.Debugw("zones_program_state_failed", "err", stateErr)
		return fmt.Errorf("program state: %w", stateErr)
	}

	s.apply(zones, state)

	if s.snapshots != nil {
		snap := models.Snapshot{Zones: zones, ProgramState: state, UpdatedAt: s.now().UTC()}
		if err := s.snapshots.Save(ctx, snap); err != nil {
			s.log.Warnw("snapshot_save_failed", "err", err)
		}
	}
	return nil
}

func (s *ZoneService) apply(zones []models.ZoneStatus, state models.ProgramState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state.ProgramRunning != s.manualDisabled {
		s.manualDisabled = state.ProgramRunning
		s.log.Infow("manual_mode_changed", "disabled", s.manualDisabled)
	}

	for _, z := range zones {
		s.status[z.ID] = z
		ctl := s.controlLocked(z.ID)
		if ctl.busy {
			continue
		}
		ctl.checked = z.Active
		if z.Active {
			ctl.durationLocked = true
			if !s.timers.Has(z.ID) {
				total := EstimateTotal(ctl.durationInput, z.RemainingTime)
				s.timers.Sync(z.ID, total, z.RemainingTime)
			}
			continue
		}
		ctl.durationLocked = false
		s.timers.Stop(z.ID)
	}
	s.updatedAt = s.now().UTC()
}

// expire advances the local countdowns and flips finished zones off without
// waiting for the device.
func (s *ZoneService) expire(ctx context.Context) {
	expired := s.timers.Tick()
	if len(expired) == 0 {
		return
	}
	s.mu.Lock()
	for _, id := range expired {
		ctl := s.controlLocked(id)
		ctl.checked = false
		ctl.durationLocked = false
		st := s.status[id]
		st.Active, st.RemainingTime = false, 0
		s.status[id] = st
	}
	s.mu.Unlock()

	for _, id := range expired {
		s.log.Infow("zone_timer_expired", "zone_id", id)
		s.record(ctx, models.EventZoneExpired, fmt.Sprintf("Zone %d countdown finished", id+1), map[string]any{"zone_id": id})
	}
}

// PollZones refreshes every PollInterval and advances countdowns every second
// until ctx is canceled. Countdowns are discarded on exit.
func (s *ZoneService) PollZones(ctx context.Context) {
	_ = s.RefreshZones(ctx)

	poll := time.NewTicker(s.cfg.PollInterval)
	tick := time.NewTicker(timerTick)
	defer func() {
		poll.Stop()
		tick.Stop()
		s.timers.Clear()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-poll.C:
			_ = s.RefreshZones(ctx)
		case <-tick.C:
			s.expire(ctx)
		}
	}
}

func (s *ZoneService) actionFailed(ctx context.Context, logKey, fallback string, err error, kv ...interface{}) {
	s.log.Errorw(logKey, append([]interface{}{"err", err}, kv...)...)
	s.notifier.Show(failureMessage(err, fallback), models.ToastError, 0)
	s.record(ctx, models.EventError, fallback, map[string]any{"err": err.Error()})
}

func (s *ZoneService) record(ctx context.Context, typ, desc string, meta map[string]any) {
	recordEvent(ctx, s.events, s.log, typ, desc, meta)
}

func (s *ZoneService) controlLocked(zoneID int) *zoneControl {
	ctl, ok := s.controls[zoneID]
	if !ok {
		ctl = &zoneControl{durationInput: defaultDurationInput}
		s.controls[zoneID] = ctl
	}
	return ctl
}

func (s *ZoneService) maxZoneDurationLocked() int {
	if s.settings.MaxZoneDuration > 0 {
		return s.settings.MaxZoneDuration
	}
	return defaultMaxZoneDuration
}

func (s *ZoneService) maxActiveZonesLocked() int {
	if s.settings.MaxActiveZones > 0 {
		return s.settings.MaxActiveZones
	}
	return defaultMaxActiveZones
}

// zoneName falls back to a 1-based label for unnamed zones.
func zoneName(id int, name string) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("Zone %d", id+1)
}

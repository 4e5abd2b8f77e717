package service

import (
	"context"
	"errors"
	"time"

	"irrigation_panel/internal/config"
	"irrigation_panel/internal/device"
	"irrigation_panel/internal/logger"
	"irrigation_panel/internal/models"
	"irrigation_panel/internal/repository"
)

// Errors returned by panel actions. Handlers map them to HTTP status codes.
var (
	ErrInvalidDuration = errors.New("invalid zone duration")
	ErrManualDisabled  = errors.New("manual control is disabled while a program is running")
	ErrActionInFlight  = errors.New("another request is already in progress")
	ErrProgramNotFound = errors.New("program not found")
	ErrUnknownPage     = errors.New("unknown page")
	ErrPageLoading     = errors.New("a page is already loading")
)

// Device is the subset of the controller REST API the panel uses.
// *device.Client implements it.
type Device interface {
	UserSettings(ctx context.Context) (models.UserSettings, error)
	Programs(ctx context.Context) (map[string]models.Program, error)
	ZonesStatus(ctx context.Context) ([]models.ZoneStatus, error)
	ProgramState(ctx context.Context) (models.ProgramState, error)
	ConnectionStatus(ctx context.Context) (models.ConnectionStatus, error)
	StartZone(ctx context.Context, zoneID, minutes int) error
	StopZone(ctx context.Context, zoneID int) error
	StartProgram(ctx context.Context, programID string) error
	StopProgram(ctx context.Context) error
	DeleteProgram(ctx context.Context, programID string) error
	ToggleProgramAutomatic(ctx context.Context, programID string, enable bool) error
}

var _ Device = (*device.Client)(nil)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (models.Operator, error)
}

// Zones is the manual-control page: zone cards, start/stop and the status poller.
type Zones interface {
	LoadSettings(ctx context.Context) error
	ManualPage(ctx context.Context) (models.ManualPage, error)
	ManualView() models.ManualPage
	SetDurationInput(zoneID, minutes int)
	StartZone(ctx context.Context, zoneID, minutes int) error
	StopZone(ctx context.Context, zoneID int) error
	RefreshZones(ctx context.Context) error
	PollZones(ctx context.Context)
}

// Programs is the program list: cards, actions and the adaptive poller.
type Programs interface {
	LoadPrograms(ctx context.Context) error
	ProgramsPage(ctx context.Context) (models.ProgramsPage, error)
	ProgramsView() models.ProgramsPage
	StartProgram(ctx context.Context, programID string) error
	StopProgram(ctx context.Context) error
	StopAll(ctx context.Context) error
	DeleteProgram(ctx context.Context, programID string) error
	ToggleAutomatic(ctx context.Context, programID string, enable bool) error
	RefreshProgramState(ctx context.Context) error
	PollPrograms(ctx context.Context)
	SetHidden(hidden bool)
	PollInterval() time.Duration
}

// Notifier shows transient toasts.
type Notifier interface {
	Show(message, kind string, d time.Duration) models.Toast
	List() []models.Toast
	Dismiss(id string) bool
	OnShow(fn func(models.Toast))
}

// EventLog is the append-only panel activity log.
type EventLog interface {
	Record(ctx context.Context, e models.PanelEvent) error
	List(ctx context.Context, f LogFilter) ([]models.PanelEvent, error)
}

// Monitoring exposes the last persisted device snapshot.
type Monitoring interface {
	GetSnapshot(ctx context.Context) (models.Snapshot, error)
}

// Connection reports the device network link.
type Connection interface {
	ConnectionStatus(ctx context.Context) (models.ConnectionStatus, error)
	LastConnection() (models.ConnectionStatus, time.Time, bool)
	PollConnection(ctx context.Context)
}

// Pages switches the active page and owns the lifetime of its pollers.
type Pages interface {
	Bind(ctx context.Context)
	LoadPage(ctx context.Context, name string) error
	EditProgram(ctx context.Context, programID string) error
	CurrentPage() string
	EditProgramID() string
	ClosePage()
}

// Service aggregates every panel concern.
type Service struct {
	Authorization
	Zones
	Programs
	Notifier
	EventLog
	Monitoring
	Connection
	Pages
}

// NewService wires the device client and repositories into the panel services.
func NewService(repos *repository.Repository, dev Device, cfg *config.Config, log *logger.Logger) *Service {
	notifier := NewNotifierService(cfg.Polling.ToastDuration, nil)
	events := NewEventLogService(repos.EventRepo)

	zones := NewZoneService(dev, notifier, events, repos.SnapshotRepo, log, ZoneConfig{
		PollInterval: cfg.Polling.Zones,
	})
	programs := NewProgramService(dev, notifier, events, log, ProgramConfig{
		Normal:           cfg.Polling.ProgramNormal,
		Running:          cfg.Polling.ProgramRunning,
		Fast:             cfg.Polling.ProgramFast,
		AccelerateFor:    cfg.Polling.AccelerateFor,
		HiddenMultiplier: cfg.Polling.HiddenMultiplier,
		Retries:          cfg.Polling.ProgramRetries,
		RetryDelay:       cfg.Polling.ProgramRetryDelay,
	})
	// stop-all refreshes whichever page is showing
	programs.AfterStopAll(func(ctx context.Context) { _ = zones.RefreshZones(ctx) })

	connection := NewConnectionService(dev, log, cfg.Polling.Connection)

	return &Service{
		Authorization: NewAuthService(repos.Operators, cfg.Auth.SigningKey, cfg.Auth.TokenTTL),
		Zones:         zones,
		Programs:      programs,
		Notifier:      notifier,
		EventLog:      events,
		Monitoring:    NewMonitoringService(repos.SnapshotRepo),
		Connection:    connection,
		Pages:         NewPageService(zones, programs, connection, notifier, log),
	}
}

package handlers

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"irrigation_panel/internal/models"
	"irrigation_panel/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID      int
	signUpErr     error
	genTokenToken string
	genTokenErr   error
	parseID       int
	parseName     string
	parseErr      error

	lastSignUpUsername string
	lastSignUpPassword string
	lastGenUsername    string
	lastGenPassword    string
	lastParseToken     string
}

func (m *mockAuth) SignUp(username, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpPassword = password
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) GenerateToken(username, password string) (string, error) {
	m.lastGenUsername = username
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (models.Operator, error) {
	m.lastParseToken = token
	if m.parseErr != nil {
		return models.Operator{}, m.parseErr
	}
	return models.Operator{ID: m.parseID, Username: m.parseName}, nil
}

type mockZones struct {
	service.Zones

	page      models.ManualPage
	pageErr   error
	startErr  error
	stopErr   error
	lastZone  int
	lastMins  int
	lastOp    models.Operator
	durations map[int]int
}

func (m *mockZones) ManualPage(ctx context.Context) (models.ManualPage, error) {
	return m.page, m.pageErr
}
func (m *mockZones) ManualView() models.ManualPage { return m.page }
func (m *mockZones) StartZone(ctx context.Context, zoneID, minutes int) error {
	m.lastZone, m.lastMins = zoneID, minutes
	m.lastOp, _ = service.OperatorFrom(ctx)
	return m.startErr
}
func (m *mockZones) StopZone(ctx context.Context, zoneID int) error {
	m.lastZone = zoneID
	m.lastOp, _ = service.OperatorFrom(ctx)
	return m.stopErr
}
func (m *mockZones) SetDurationInput(zoneID, minutes int) {
	if m.durations == nil {
		m.durations = map[int]int{}
	}
	m.durations[zoneID] = minutes
}

type mockPrograms struct {
	service.Programs

	page        models.ProgramsPage
	pageErr     error
	startErr    error
	stopErr     error
	stopAllErr  error
	deleteErr   error
	toggleErr   error
	lastID      string
	lastEnable  bool
	lastOp      models.Operator
	hidden      atomic.Bool
	interval    time.Duration
	stopAllCall int
}

func (m *mockPrograms) ProgramsPage(ctx context.Context) (models.ProgramsPage, error) {
	return m.page, m.pageErr
}
func (m *mockPrograms) ProgramsView() models.ProgramsPage { return m.page }
func (m *mockPrograms) StartProgram(ctx context.Context, id string) error {
	m.lastID = id
	m.lastOp, _ = service.OperatorFrom(ctx)
	return m.startErr
}
func (m *mockPrograms) StopProgram(ctx context.Context) error { return m.stopErr }
func (m *mockPrograms) StopAll(ctx context.Context) error {
	m.stopAllCall++
	m.lastOp, _ = service.OperatorFrom(ctx)
	return m.stopAllErr
}
func (m *mockPrograms) DeleteProgram(ctx context.Context, id string) error {
	m.lastID = id
	return m.deleteErr
}
func (m *mockPrograms) ToggleAutomatic(ctx context.Context, id string, enable bool) error {
	m.lastID, m.lastEnable = id, enable
	return m.toggleErr
}
func (m *mockPrograms) SetHidden(hidden bool) { m.hidden.Store(hidden) }
func (m *mockPrograms) PollInterval() time.Duration {
	if m.hidden.Load() {
		return 2 * m.interval
	}
	return m.interval
}

type mockPages struct {
	service.Pages

	current string
	editID  string
	loadErr error
}

func (m *mockPages) LoadPage(ctx context.Context, name string) error {
	if m.loadErr != nil {
		return m.loadErr
	}
	m.current = name
	return nil
}
func (m *mockPages) EditProgram(ctx context.Context, id string) error {
	m.editID = id
	return m.LoadPage(ctx, service.PageModifyProgram)
}
func (m *mockPages) CurrentPage() string   { return m.current }
func (m *mockPages) EditProgramID() string { return m.editID }

type mockConnection struct {
	service.Connection

	status  models.ConnectionStatus
	err     error
	last    models.ConnectionStatus
	lastAt  time.Time
	hasLast bool
}

func (m *mockConnection) ConnectionStatus(ctx context.Context) (models.ConnectionStatus, error) {
	return m.status, m.err
}
func (m *mockConnection) LastConnection() (models.ConnectionStatus, time.Time, bool) {
	return m.last, m.lastAt, m.hasLast
}

type mockMonitoring struct {
	snapshot models.Snapshot
	err      error
}

func (m *mockMonitoring) GetSnapshot(ctx context.Context) (models.Snapshot, error) {
	return m.snapshot, m.err
}

type mockEventLog struct {
	resp     []models.PanelEvent
	err      error
	lastFrom time.Time
	lastTo   time.Time
	lastType string
	lastOp   string
}

func (m *mockEventLog) Record(ctx context.Context, e models.PanelEvent) error { return nil }

func (m *mockEventLog) List(ctx context.Context, f service.LogFilter) ([]models.PanelEvent, error) {
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	m.lastOp = f.Operator
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

// newPanelServices fills every panel concern with a mock; the real
// notifier is used so toasts can be listed and streamed.
func newPanelServices(auth *mockAuth) (*service.Service, *mockZones, *mockPrograms, *mockPages) {
	zones := &mockZones{}
	programs := &mockPrograms{interval: 5 * time.Second}
	pages := &mockPages{current: service.PageManual}
	return &service.Service{
		Authorization: auth,
		Zones:         zones,
		Programs:      programs,
		Notifier:      service.NewNotifierService(time.Minute, nil),
		EventLog:      &mockEventLog{},
		Monitoring:    &mockMonitoring{},
		Connection:    &mockConnection{},
		Pages:         pages,
	}, zones, programs, pages
}

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

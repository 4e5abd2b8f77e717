package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"irrigation_panel/internal/models"
	"irrigation_panel/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 1 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20s", 1 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=20000", 1 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 1 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 1 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

// --- websocket integration tests ---

func dialPanel(t *testing.T, s *service.Service, intervalMs string) *websocket.Conn {
	t.Helper()
	r := gin.New()
	h := NewHandler(s, nil)
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	if intervalMs != "" {
		q := u.Query()
		q.Set("interval_ms", intervalMs)
		u.RawQuery = q.Encode()
	}

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

type envelope struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func TestWebSocket_PanelStream_InitialAndPeriodic(t *testing.T) {
	s, zones, programs, _ := newPanelServices(&mockAuth{})
	zones.page = models.ManualPage{Zones: []models.ZoneCard{{ID: 0, Name: "Lawn", Active: true, Countdown: "04:10"}}}
	programs.page = models.ProgramsPage{Programs: []models.ProgramCard{{ID: "1", Name: "Morning"}}}
	s.Notifier.Show("Zone 1 started for 5 minutes", models.ToastSuccess, 0)

	conn := dialPanel(t, s, "20")

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}
	if env.Type != "panel" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var frame panelFrame
	if err := json.Unmarshal(env.Data, &frame); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if frame.Page != service.PageManual || len(frame.Manual.Zones) != 1 || frame.Manual.Zones[0].Countdown != "04:10" {
		t.Fatalf("unexpected manual view: %+v", frame)
	}
	if len(frame.Programs.Programs) != 1 || len(frame.Toasts) != 1 {
		t.Fatalf("unexpected programs/toasts: %+v", frame)
	}

	_ = conn.SetReadDeadline(time.Now().Add(1 * time.Second))
	env = envelope{}
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read second: %v", err)
	}
	if env.Type != "panel" {
		t.Fatalf("expected type=panel, got %+v", env)
	}
}

func TestWebSocket_VisibilityMessage(t *testing.T) {
	s, _, programs, _ := newPanelServices(&mockAuth{})
	conn := dialPanel(t, s, "20")

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read initial: %v", err)
	}

	if err := conn.WriteJSON(map[string]any{"type": "visibility", "hidden": true}); err != nil {
		t.Fatalf("write: %v", err)
	}
	// the next frames prove the reader has processed the message
	for i := 0; i < 3; i++ {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		if err := conn.ReadJSON(&env); err != nil {
			t.Fatalf("read: %v", err)
		}
	}
	if got := programs.PollInterval(); got != 10*time.Second {
		t.Fatalf("visibility not applied, interval = %v", got)
	}
}

func TestWebSocket_CloseClearsHidden(t *testing.T) {
	s, _, programs, _ := newPanelServices(&mockAuth{})
	conn := dialPanel(t, s, "20")

	if err := conn.WriteJSON(map[string]any{"type": "visibility", "hidden": true}); err != nil {
		t.Fatalf("write: %v", err)
	}
	deadline := time.Now().Add(time.Second)
	for !programs.hidden.Load() {
		if time.Now().After(deadline) {
			t.Fatal("hidden never applied")
		}
		time.Sleep(5 * time.Millisecond)
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()

	deadline = time.Now().Add(time.Second)
	for programs.hidden.Load() {
		if time.Now().After(deadline) {
			t.Fatal("panel still hidden after the socket closed")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

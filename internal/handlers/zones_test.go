package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"irrigation_panel/internal/device"
	"irrigation_panel/internal/models"
	"irrigation_panel/internal/service"
)

func doAuthed(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer valid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestZonesHandler_GetZones(t *testing.T) {
	s, zones, _, _ := newPanelServices(&mockAuth{parseID: 1})
	zones.page = models.ManualPage{
		Zones:           []models.ZoneCard{{ID: 0, Name: "Lawn", DurationMinutes: 10}},
		MaxZoneDuration: 180,
		MaxActiveZones:  3,
	}
	r := newTestRouter(s)

	w := doAuthed(r, http.MethodGet, "/api/v1/zones", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got models.ManualPage
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Zones) != 1 || got.Zones[0].Name != "Lawn" || got.MaxZoneDuration != 180 {
		t.Fatalf("unexpected page: %+v", got)
	}

	zones.pageErr = &device.NetworkError{Path: device.PathUserSettings, Err: fmt.Errorf("refused")}
	w = doAuthed(r, http.MethodGet, "/api/v1/zones", "")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
}

func TestZonesHandler_StartZone(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		body     string
		startErr error
		wantCode int
	}{
		{"ok", "/api/v1/zones/2/start", `{"duration":15}`, nil, http.StatusOK},
		{"bad id", "/api/v1/zones/x/start", `{"duration":15}`, nil, http.StatusBadRequest},
		{"bad body", "/api/v1/zones/2/start", `{"duration":"ten"}`, nil, http.StatusBadRequest},
		{"invalid duration", "/api/v1/zones/2/start", `{"duration":0}`, fmt.Errorf("start: %w", service.ErrInvalidDuration), http.StatusBadRequest},
		{"manual disabled", "/api/v1/zones/2/start", `{"duration":5}`, service.ErrManualDisabled, http.StatusBadRequest},
		{"busy", "/api/v1/zones/2/start", `{"duration":5}`, service.ErrActionInFlight, http.StatusConflict},
		{"refused", "/api/v1/zones/2/start", `{"duration":5}`, &device.ActionError{Path: device.PathStartZone, Message: "too many zones"}, http.StatusUnprocessableEntity},
		{"device down", "/api/v1/zones/2/start", `{"duration":5}`, &device.HTTPError{Path: device.PathStartZone, Status: 500}, http.StatusBadGateway},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, zones, _, _ := newPanelServices(&mockAuth{parseID: 1})
			zones.startErr = tc.startErr
			r := newTestRouter(s)

			w := doAuthed(r, http.MethodPost, tc.path, tc.body)
			if w.Code != tc.wantCode {
				t.Fatalf("status=%d want=%d body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			if tc.wantCode == http.StatusOK && (zones.lastZone != 2 || zones.lastMins != 15) {
				t.Fatalf("service got zone=%d minutes=%d", zones.lastZone, zones.lastMins)
			}
		})
	}
}

func TestZonesHandler_RefusalCarriesDeviceMessage(t *testing.T) {
	s, zones, _, _ := newPanelServices(&mockAuth{parseID: 1})
	zones.stopErr = fmt.Errorf("stop zone 1: %w", &device.ActionError{Path: device.PathStopZone, Message: "zone not found"})
	r := newTestRouter(s)

	w := doAuthed(r, http.MethodPost, "/api/v1/zones/1/stop", "")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "zone not found") {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestZonesHandler_SetDuration(t *testing.T) {
	s, zones, _, _ := newPanelServices(&mockAuth{parseID: 1})
	r := newTestRouter(s)

	w := doAuthed(r, http.MethodPut, "/api/v1/zones/3/duration", `{"duration":25}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if zones.durations[3] != 25 {
		t.Fatalf("durations=%v", zones.durations)
	}
}

func TestZonesHandler_RequiresToken(t *testing.T) {
	s, _, _, _ := newPanelServices(&mockAuth{parseID: 1})
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/zones", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestZonesHandler_ActionsCarryOperator(t *testing.T) {
	s, zones, _, _ := newPanelServices(&mockAuth{parseID: 4, parseName: "kim"})
	r := newTestRouter(s)

	w := doAuthed(r, http.MethodPost, "/api/v1/zones/2/start", `{"duration":5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("start status=%d body=%s", w.Code, w.Body.String())
	}
	if zones.lastOp.ID != 4 || zones.lastOp.Username != "kim" {
		t.Fatalf("start saw operator %+v", zones.lastOp)
	}

	zones.lastOp = models.Operator{}
	w = doAuthed(r, http.MethodPost, "/api/v1/zones/2/stop", "")
	if w.Code != http.StatusOK {
		t.Fatalf("stop status=%d body=%s", w.Code, w.Body.String())
	}
	if zones.lastOp.Username != "kim" {
		t.Fatalf("stop saw operator %+v", zones.lastOp)
	}
}

package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"irrigation_panel/internal/models"
)

// Device endpoint paths.
const (
	PathUserSettings     = "/data/user_settings.json"
	PathPrograms         = "/data/program.json"
	PathZonesStatus      = "/get_zones_status"
	PathProgramState     = "/get_program_state"
	PathConnectionStatus = "/get_connection_status"
	PathStartZone        = "/start_zone"
	PathStopZone         = "/stop_zone"
	PathStartProgram     = "/start_program"
	PathStopProgram      = "/stop_program"
	PathDeleteProgram    = "/delete_program"
	PathToggleAutomatic  = "/toggle_program_automatic"
)

const (
	defaultTimeout  = 5 * time.Second
	maxResponseBody = 1 << 20
)

// Client talks to the irrigation controller REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL ("http://host:port").
// A zero timeout selects the default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// UserSettings fetches the zone list and manual-mode limits.
func (c *Client) UserSettings(ctx context.Context) (models.UserSettings, error) {
	var out models.UserSettings
	err := c.getJSON(ctx, PathUserSettings, &out)
	return out, err
}

// Programs fetches every stored program keyed by id. Programs missing an id
// take the key as id.
func (c *Client) Programs(ctx context.Context) (map[string]models.Program, error) {
	var out map[string]models.Program
	if err := c.getJSON(ctx, PathPrograms, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]models.Program{}
	}
	for id, p := range out {
		if p.ID == "" {
			p.ID = id
			out[id] = p
		}
	}
	return out, nil
}

// ZonesStatus fetches the per-zone active/remaining state.
func (c *Client) ZonesStatus(ctx context.Context) ([]models.ZoneStatus, error) {
	var out []models.ZoneStatus
	err := c.getJSON(ctx, PathZonesStatus, &out)
	return out, err
}

// ProgramState fetches the running-program state.
func (c *Client) ProgramState(ctx context.Context) (models.ProgramState, error) {
	var out models.ProgramState
	err := c.getJSON(ctx, PathProgramState, &out)
	return out, err
}

// ConnectionStatus fetches the network link state.
func (c *Client) ConnectionStatus(ctx context.Context) (models.ConnectionStatus, error) {
	var out models.ConnectionStatus
	err := c.getJSON(ctx, PathConnectionStatus, &out)
	return out, err
}

// StartZone waters zoneID for minutes.
func (c *Client) StartZone(ctx context.Context, zoneID, minutes int) error {
	return c.postAction(ctx, PathStartZone, map[string]any{"zone_id": zoneID, "duration": minutes})
}

// StopZone stops watering zoneID.
func (c *Client) StopZone(ctx context.Context, zoneID int) error {
	return c.postAction(ctx, PathStopZone, map[string]any{"zone_id": zoneID})
}

// StartProgram runs programID immediately.
func (c *Client) StartProgram(ctx context.Context, programID string) error {
	return c.postAction(ctx, PathStartProgram, map[string]any{"program_id": programID})
}

// StopProgram stops whatever is running.
func (c *Client) StopProgram(ctx context.Context) error {
	return c.postAction(ctx, PathStopProgram, nil)
}

// DeleteProgram removes programID from the device.
func (c *Client) DeleteProgram(ctx context.Context, programID string) error {
	return c.postAction(ctx, PathDeleteProgram, map[string]any{"id": programID})
}

// ToggleProgramAutomatic enables or disables scheduled activation.
func (c *Client) ToggleProgramAutomatic(ctx context.Context, programID string, enable bool) error {
	return c.postAction(ctx, PathToggleAutomatic, map[string]any{"program_id": programID, "enable": enable})
}

func (c *Client) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	return c.do(req, path, dst)
}

func (c *Client) postAction(ctx context.Context, path string, body any) error {
	var payload io.Reader = http.NoBody
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		payload = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	var res models.ActionResult
	if err := c.do(req, path, &res); err != nil {
		return err
	}
	if !res.Success {
		return &ActionError{Path: path, Message: res.Error}
	}
	return nil
}

func (c *Client) do(req *http.Request, path string, dst any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return &HTTPError{Path: path, Status: resp.StatusCode}
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(dst); err != nil {
		return fmt.Errorf("%w from %s: %v", ErrBadResponse, path, err)
	}
	return nil
}

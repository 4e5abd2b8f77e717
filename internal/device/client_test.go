package device

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDevice(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", time.Second)
}

func TestClient_Programs_FillsMissingIDs(t *testing.T) {
	c := newTestDevice(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, PathPrograms, r.URL.Path)
		_, _ = w.Write([]byte(`{"1":{"name":"Prato","steps":[{"zone_id":0,"duration":10}]},"7":{"id":"7","name":"Orto"}}`))
	})

	progs, err := c.Programs(context.Background())
	require.NoError(t, err)
	require.Len(t, progs, 2)
	assert.Equal(t, "1", progs["1"].ID)
	assert.Equal(t, "Orto", progs["7"].Name)
	assert.Equal(t, 10, progs["1"].Steps[0].Duration)
	assert.True(t, progs["1"].Automatic())
}

func TestClient_ZonesStatusAndProgramState(t *testing.T) {
	c := newTestDevice(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathZonesStatus:
			_, _ = w.Write([]byte(`[{"id":0,"active":true,"remaining_time":45},{"id":1,"active":false,"remaining_time":0}]`))
		case PathProgramState:
			_, _ = w.Write([]byte(`{"program_running":true,"current_program_id":"2","active_zone":{"id":1,"name":"Siepe","remaining_time":30}}`))
		default:
			http.NotFound(w, r)
		}
	})

	zones, err := c.ZonesStatus(context.Background())
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.True(t, zones[0].Active)
	assert.Equal(t, 45, zones[0].RemainingTime)

	st, err := c.ProgramState(context.Background())
	require.NoError(t, err)
	assert.True(t, st.IsRunning("2"))
	require.NotNil(t, st.ActiveZone)
	assert.Equal(t, "Siepe", st.ActiveZone.Name)
}

func TestClient_StartZone_SendsBodyAndHandlesFailures(t *testing.T) {
	var got map[string]any
	reply := `{"success":true}`
	status := http.StatusOK
	c := newTestDevice(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, PathStartZone, r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	})

	require.NoError(t, c.StartZone(context.Background(), 3, 15))
	assert.EqualValues(t, 3, got["zone_id"])
	assert.EqualValues(t, 15, got["duration"])

	reply = `{"success":false,"error":"troppe zone attive"}`
	err := c.StartZone(context.Background(), 3, 15)
	var ae *ActionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "troppe zone attive", Message(err))
	assert.False(t, IsNetworkError(err))

	status, reply = http.StatusInternalServerError, ""
	err = c.StartZone(context.Background(), 3, 15)
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusInternalServerError, he.Status)

	status, reply = http.StatusOK, "not json"
	err = c.StartZone(context.Background(), 3, 15)
	assert.ErrorIs(t, err, ErrBadResponse)
}

func TestClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewClient(url, 200*time.Millisecond)
	err := c.StopProgram(context.Background())
	require.Error(t, err)
	assert.True(t, IsNetworkError(err))
}

func TestRetry_RetriesOnlyNetworkErrors(t *testing.T) {
	ctx := context.Background()
	netErr := &NetworkError{Path: PathStartProgram, Err: errors.New("connection refused")}

	calls := 0
	err := Retry(ctx, 3, time.Millisecond, func(context.Context) error {
		calls++
		return netErr
	})
	assert.Equal(t, 4, calls, "one attempt plus three retries")
	assert.True(t, IsNetworkError(err))

	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func(context.Context) error {
		calls++
		if calls < 3 {
			return netErr
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)

	calls = 0
	err = Retry(ctx, 3, time.Millisecond, func(context.Context) error {
		calls++
		return &ActionError{Path: PathStartProgram, Message: "busy"}
	})
	assert.Equal(t, 1, calls)
	assert.Error(t, err)
}

func TestRetry_BackoffGrowsLinearly(t *testing.T) {
	var stamps []time.Time
	_ = Retry(context.Background(), 2, 20*time.Millisecond, func(context.Context) error {
		stamps = append(stamps, time.Now())
		return &NetworkError{Path: PathStopProgram, Err: errors.New("reset")}
	})
	require.Len(t, stamps, 3)
	assert.GreaterOrEqual(t, stamps[1].Sub(stamps[0]), 20*time.Millisecond)
	assert.GreaterOrEqual(t, stamps[2].Sub(stamps[1]), 40*time.Millisecond)
}

func TestRetry_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 3, time.Hour, func(context.Context) error {
		calls++
		cancel()
		return &NetworkError{Path: PathStopProgram, Err: errors.New("reset")}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

package service

import (
	"sort"
	"sync"
	"time"
)

// TimerEntry is the local countdown of one active zone. It only interpolates
// between polls; the device state always wins.
type TimerEntry struct {
	TotalDuration int       `json:"total_duration"` // seconds
	RemainingTime int       `json:"remaining_time"` // seconds
	StartTime     time.Time `json:"start_time"`
}

func (e TimerEntry) elapsed() int {
	return e.TotalDuration - e.RemainingTime
}

// ZoneTimers free-runs one countdown per zone.
type ZoneTimers struct {
	mu      sync.Mutex
	entries map[int]*TimerEntry
	now     func() time.Time
}

func NewZoneTimers(now func() time.Time) *ZoneTimers {
	if now == nil {
		now = time.Now
	}
	return &ZoneTimers{entries: map[int]*TimerEntry{}, now: now}
}

// Start begins a fresh countdown of total seconds, replacing any existing one.
func (t *ZoneTimers) Start(zoneID, total int) {
	t.Sync(zoneID, total, total)
}

// Sync installs a countdown that already has remaining seconds left by
// back-dating its start time.
func (t *ZoneTimers) Sync(zoneID, total, remaining int) {
	if remaining > total {
		remaining = total
	}
	if remaining < 0 {
		remaining = 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	elapsed := time.Duration(total-remaining) * time.Second
	t.entries[zoneID] = &TimerEntry{
		TotalDuration: total,
		RemainingTime: remaining,
		StartTime:     t.now().Add(-elapsed),
	}
}

// Stop drops the countdown of zoneID and reports whether one existed.
func (t *ZoneTimers) Stop(zoneID int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[zoneID]
	delete(t.entries, zoneID)
	return ok
}

func (t *ZoneTimers) Has(zoneID int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[zoneID]
	return ok
}

// Get returns a copy of the entry for zoneID.
func (t *ZoneTimers) Get(zoneID int) (TimerEntry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[zoneID]
	if !ok {
		return TimerEntry{}, false
	}
	return *e, true
}

// View returns the progress percentage and MM:SS countdown for zoneID.
// Zones without a countdown render as an empty bar.
func (t *ZoneTimers) View(zoneID int) (int, string) {
	e, ok := t.Get(zoneID)
	if !ok {
		return 0, FormatCountdown(0)
	}
	return Progress(e.elapsed(), e.TotalDuration), FormatCountdown(e.RemainingTime)
}

// Tick recomputes every countdown from its start time and removes the ones
// that reached zero. It returns the expired zone ids in ascending order.
func (t *ZoneTimers) Tick() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	var expired []int
	for id, e := range t.entries {
		elapsed := int(now.Sub(e.StartTime) / time.Second)
		remaining := e.TotalDuration - elapsed
		if remaining < 0 {
			remaining = 0
		}
		e.RemainingTime = remaining
		if remaining == 0 {
			delete(t.entries, id)
			expired = append(expired, id)
		}
	}
	sort.Ints(expired)
	return expired
}

// Clear drops every countdown.
func (t *ZoneTimers) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = map[int]*TimerEntry{}
}

func (t *ZoneTimers) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

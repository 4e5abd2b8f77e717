package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"irrigation_panel/internal/models"
)

// monitoringSnapshotRepoStub satisfies repository.SnapshotRepo.
type monitoringSnapshotRepoStub struct {
	loadResp   models.Snapshot
	loadErr    error
	saveErr    error
	savedCalls []models.Snapshot
}

func (s *monitoringSnapshotRepoStub) Load(ctx context.Context) (models.Snapshot, error) {
	return s.loadResp, s.loadErr
}

func (s *monitoringSnapshotRepoStub) Save(ctx context.Context, snap models.Snapshot) error {
	s.savedCalls = append(s.savedCalls, snap)
	return s.saveErr
}

func TestMonitoringService_GetSnapshot(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name       string
		repoResp   models.Snapshot
		repoErr    error
		assertFunc func(t *testing.T, got models.Snapshot, err error)
	}

	now := time.Now()

	cases := []testCase{
		{
			name:    "propagates repository error",
			repoErr: errors.New("db down"),
			assertFunc: func(t *testing.T, got models.Snapshot, err error) {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				if !got.UpdatedAt.IsZero() {
					t.Errorf("expected zero snapshot, got %+v", got)
				}
			},
		},
		{
			name: "returns baseline when nothing persisted",
			assertFunc: func(t *testing.T, got models.Snapshot, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if got.Zones == nil || len(got.Zones) != 0 {
					t.Errorf("baseline zones: want empty slice, got %#v", got.Zones)
				}
				if got.ProgramState.ProgramRunning {
					t.Errorf("baseline must be idle")
				}
				if got.UpdatedAt.Location() != time.UTC {
					t.Errorf("baseline UpdatedAt must be UTC, got %v", got.UpdatedAt.Location())
				}
				assertWithin(t, got.UpdatedAt, time.Since(now)+200*time.Millisecond)
			},
		},
		{
			name: "normalizes UpdatedAt to UTC for a stored snapshot",
			repoResp: models.Snapshot{
				Zones:        []models.ZoneStatus{{ID: 2, Active: true, RemainingTime: 90}},
				ProgramState: models.ProgramState{ProgramRunning: true, CurrentProgramID: "3"},
				UpdatedAt:    time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("X", -3*3600)),
			},
			assertFunc: func(t *testing.T, got models.Snapshot, err error) {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if len(got.Zones) != 1 || got.Zones[0].RemainingTime != 90 {
					t.Errorf("unexpected zones: %+v", got.Zones)
				}
				if !got.ProgramState.IsRunning("3") {
					t.Errorf("unexpected program state: %+v", got.ProgramState)
				}
				wantUTC := time.Date(2025, 1, 2, 6, 4, 5, 0, time.UTC)
				if got.UpdatedAt.Location() != time.UTC || !got.UpdatedAt.Equal(wantUTC) {
					t.Errorf("UpdatedAt: want %v, got %v", wantUTC, got.UpdatedAt)
				}
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			svc := NewMonitoringService(&monitoringSnapshotRepoStub{loadResp: tc.repoResp, loadErr: tc.repoErr})
			got, err := svc.GetSnapshot(ctx)
			tc.assertFunc(t, got, err)
		})
	}
}

func TestToUTC(t *testing.T) {
	t.Parallel()

	t.Run("zero time is preserved", func(t *testing.T) {
		t.Parallel()
		var z time.Time
		if got := toUTC(z); !got.IsZero() {
			t.Fatalf("expected zero time, got %v", got)
		}
	})

	t.Run("non-zero converted to UTC", func(t *testing.T) {
		t.Parallel()
		local := time.Date(2025, 2, 3, 10, 0, 0, 0, time.FixedZone("Z+2", 2*3600))
		got := toUTC(local)
		want := time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC)
		if got.Location() != time.UTC || !got.Equal(want) {
			t.Fatalf("want %v, got %v", want, got)
		}
	})
}

// assertWithin checks that got is within dur of now.
func assertWithin(t *testing.T, got time.Time, dur time.Duration) {
	t.Helper()
	if got.IsZero() {
		t.Fatalf("time is zero")
	}
	diff := time.Since(got)
	if diff < 0 {
		diff = -diff
	}
	if diff > dur {
		t.Fatalf("time %v not within %v of now; diff=%v", got, dur, diff)
	}
}

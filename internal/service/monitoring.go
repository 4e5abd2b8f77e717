package service

import (
	"context"
	"time"

	"irrigation_panel/internal/models"
	"irrigation_panel/internal/repository"
)

type MonitoringService struct {
	snapshotRepo repository.SnapshotRepo
}

func NewMonitoringService(snapshotRepo repository.SnapshotRepo) *MonitoringService {
	return &MonitoringService{snapshotRepo: snapshotRepo}
}

// GetSnapshot returns the last persisted device snapshot, or an idle
// baseline when the panel has not polled the device yet.
func (s *MonitoringService) GetSnapshot(ctx context.Context) (models.Snapshot, error) {
	snap, err := s.snapshotRepo.Load(ctx)
	if err != nil {
		return models.Snapshot{}, err
	}
	if snap.UpdatedAt.IsZero() {
		return s.baselineSnapshot(), nil
	}
	snap.UpdatedAt = toUTC(snap.UpdatedAt)
	if snap.Zones == nil {
		snap.Zones = []models.ZoneStatus{}
	}
	return snap, nil
}

// baselineSnapshot is an idle device with no zones reported.
func (s *MonitoringService) baselineSnapshot() models.Snapshot {
	return models.Snapshot{
		Zones:        []models.ZoneStatus{},
		ProgramState: models.ProgramState{},
		UpdatedAt:    time.Now().UTC(),
	}
}

// toUTC normalizes non-zero time to UTC, preserving zero values.
func toUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

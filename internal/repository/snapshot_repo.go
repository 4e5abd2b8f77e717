package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"irrigation_panel/internal/models"
)

// SnapshotSQLite keeps the last polled device state in a single row.
type SnapshotSQLite struct {
	db *sql.DB
}

func NewSnapshotSQLite(db *sql.DB) *SnapshotSQLite {
	return &SnapshotSQLite{db: db}
}

const (
	snapshotRowID = 1

	upsertSnapshotSQL = `
		INSERT INTO panel_snapshot (id, zones, program_state, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			zones=excluded.zones,
			program_state=excluded.program_state,
			updated_at=excluded.updated_at
	`

	selectSnapshotSQL = `
		SELECT zones, program_state, updated_at
		FROM panel_snapshot WHERE id=?
	`
)

// Save replaces the snapshot row. A zero UpdatedAt is stamped with now.
func (r *SnapshotSQLite) Save(ctx context.Context, snap models.Snapshot) error {
	zones := snap.Zones
	if zones == nil {
		zones = []models.ZoneStatus{}
	}
	zonesJSON, err := json.Marshal(zones)
	if err != nil {
		return fmt.Errorf("marshal zones: %w", err)
	}
	stateJSON, err := json.Marshal(snap.ProgramState)
	if err != nil {
		return fmt.Errorf("marshal program state: %w", err)
	}

	ts := snap.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}

	_, err = r.db.ExecContext(ctx, upsertSnapshotSQL,
		snapshotRowID,
		string(zonesJSON),
		string(stateJSON),
		ts.UTC(),
	)
	return err
}

// Load returns the stored snapshot, or a zero value when nothing was saved yet.
func (r *SnapshotSQLite) Load(ctx context.Context) (models.Snapshot, error) {
	var (
		snap      models.Snapshot
		zonesJSON string
		stateJSON string
	)
	err := r.db.QueryRowContext(ctx, selectSnapshotSQL, snapshotRowID).Scan(&zonesJSON, &stateJSON, &snap.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Snapshot{}, nil
		}
		return models.Snapshot{}, err
	}

	if err := json.Unmarshal([]byte(zonesJSON), &snap.Zones); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode zones: %w", err)
	}
	if err := json.Unmarshal([]byte(stateJSON), &snap.ProgramState); err != nil {
		return models.Snapshot{}, fmt.Errorf("decode program state: %w", err)
	}
	snap.UpdatedAt = snap.UpdatedAt.UTC()
	return snap, nil
}

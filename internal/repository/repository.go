package repository

import (
	"context"
	"database/sql"
	"time"

	"irrigation_panel/internal/models"
)

// Operators stores panel accounts.
type Operators interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.Operator, error)
	GetByID(id int) (*models.Operator, error)
}

// SnapshotRepo persists the last device state seen by the zone poller.
type SnapshotRepo interface {
	Save(ctx context.Context, s models.Snapshot) error
	Load(ctx context.Context) (models.Snapshot, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.PanelEvent) error
	List(ctx context.Context, from, to time.Time, typ string) ([]models.PanelEvent, error)
}

type Repository struct {
	SnapshotRepo SnapshotRepo
	EventRepo    EventRepo
	Operators    Operators
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		SnapshotRepo: NewSnapshotSQLite(db),
		EventRepo:    NewEventSQLite(db),
		Operators:    NewOperatorRepository(db),
	}
}

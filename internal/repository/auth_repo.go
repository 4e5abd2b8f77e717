package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"irrigation_panel/internal/models"
)

// ErrOperatorExists is returned when the username is already taken.
var ErrOperatorExists = errors.New("operator already exists")

// OperatorRepository stores panel operator accounts. Usernames compare
// case-insensitively (the column is COLLATE NOCASE).
type OperatorRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewOperatorRepository(db *sql.DB) *OperatorRepository {
	return &OperatorRepository{db: db, now: time.Now}
}

var _ Operators = (*OperatorRepository)(nil)

const (
	insertOperatorSQL     = `INSERT INTO operators (username, password_hash, created_at) VALUES (?, ?, ?)`
	selectOperatorColumns = `SELECT id, username, password_hash, created_at FROM operators`
	selectOperatorByName  = selectOperatorColumns + ` WHERE username = ?`
	selectOperatorByID    = selectOperatorColumns + ` WHERE id = ?`
)

// Create inserts an operator and returns its id.
func (r *OperatorRepository) Create(username, passwordHash string) (int, error) {
	res, err := r.db.Exec(insertOperatorSQL, username, passwordHash, r.now().UTC().Format(sqliteTimestamp))
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", ErrOperatorExists, username)
		}
		return 0, fmt.Errorf("insert operator %q: %w", username, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for operator %q: %w", username, err)
	}
	return int(lastID), nil
}

// GetByUsername returns (nil, nil) when no operator has that name.
func (r *OperatorRepository) GetByUsername(username string) (*models.Operator, error) {
	op, err := scanOperator(r.db.QueryRow(selectOperatorByName, username))
	if err != nil {
		return nil, fmt.Errorf("select operator %q: %w", username, err)
	}
	return op, nil
}

// GetByID returns (nil, nil) when the id is unknown, e.g. for a token that
// outlived its account.
func (r *OperatorRepository) GetByID(id int) (*models.Operator, error) {
	op, err := scanOperator(r.db.QueryRow(selectOperatorByID, id))
	if err != nil {
		return nil, fmt.Errorf("select operator %d: %w", id, err)
	}
	return op, nil
}

func scanOperator(row *sql.Row) (*models.Operator, error) {
	var op models.Operator
	if err := row.Scan(&op.ID, &op.Username, &op.PasswordHash, &op.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	op.CreatedAt = op.CreatedAt.UTC()
	return &op, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

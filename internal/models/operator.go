package models

import "time"

// Operator is a panel account. Every action taken through the API is
// attributed to one.
type Operator struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

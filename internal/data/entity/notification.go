package entity

import (
	"github.com/google/uuid"
)

// Notification records a single upward threshold crossing for a
// showtime. At most one exists per (showtime, threshold) pair.
type Notification struct {
	BaseSimple
	ShowtimeID uuid.UUID `db:"showtime_id"`
	Threshold  int       `db:"threshold"`
	Message    string    `db:"message"`
	Read       bool      `db:"is_read"`
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

type HoldState string

const (
	HoldActive    HoldState = "active"
	HoldCommitted HoldState = "committed"
	HoldReleased  HoldState = "released"
	HoldExpired   HoldState = "expired"
)

// Hold is a temporary exclusive claim on a set of seats pending
// payment. TotalPrice is snapshotted when the hold is placed and never
// recomputed from later settings changes.
type Hold struct {
	ID         uuid.UUID `db:"id"`
	ShowtimeID uuid.UUID `db:"showtime_id"`
	SeatIDs    []string  `db:"seat_ids"`
	HolderID   string    `db:"holder_id"` // caller-supplied session/user id
	State      HoldState `db:"state"`
	TotalPrice float64   `db:"total_price"`
	CreatedAt  time.Time `db:"created_at"`
	ExpiresAt  time.Time `db:"expires_at"`
}

func (h *Hold) ExpiredAt(now time.Time) bool {
	return now.After(h.ExpiresAt)
}

package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SeatTier string

const (
	TierStandard SeatTier = "standard"
	TierPremium  SeatTier = "premium"
	TierVIP      SeatTier = "vip"
)

// TierForRow assigns a tier by row position: the first three rows are
// standard, the next four premium, everything behind them VIP.
func TierForRow(rowIndex int) SeatTier {
	switch {
	case rowIndex < 3:
		return TierStandard
	case rowIndex < 7:
		return TierPremium
	default:
		return TierVIP
	}
}

type SeatState string

const (
	SeatAvailable SeatState = "available"
	SeatHeld      SeatState = "held"
	SeatBooked    SeatState = "booked"
)

// SeatStatus is a tagged variant: State decides which of the reference
// fields are meaningful. HoldID and ExpiresAt are set only while held,
// BookingID only once booked.
type SeatStatus struct {
	State     SeatState `db:"state"`
	HoldID    uuid.UUID `db:"hold_id"`
	BookingID uuid.UUID `db:"booking_id"`
	ExpiresAt time.Time `db:"expires_at"`
}

func (s SeatStatus) Available() bool {
	return s.State == SeatAvailable
}

type Seat struct {
	ID     string     `db:"id"` // row letter + column, e.g. "A1"
	Row    string     `db:"seat_row"`
	Number int        `db:"seat_column"`
	Tier   SeatTier   `db:"tier"`
	Status SeatStatus `db:"status"`
}

// SeatID builds the canonical seat identifier from a zero-based row
// index and a one-based seat number.
func SeatID(rowIndex, number int) string {
	return fmt.Sprintf("%c%d", 'A'+rowIndex, number)
}

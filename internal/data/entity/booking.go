package entity

import (
	"github.com/google/uuid"
)

type BookingStatus string

// Failed attempts never produce a Booking, so confirmed is the only
// status a ledger row can carry.
const BookingStatusConfirmed BookingStatus = "confirmed"

type Booking struct {
	BaseSimple
	OrderID    string        `db:"order_id"`
	HoldID     uuid.UUID     `db:"hold_id"`
	ShowtimeID uuid.UUID     `db:"showtime_id"`
	UserID     string        `db:"user_id"`
	SeatIDs    []string      `db:"seat_ids"`
	TotalPrice float64       `db:"total_price"`
	PaymentRef string        `db:"payment_ref"`
	Status     BookingStatus `db:"status"`
}

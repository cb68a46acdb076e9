package response

import (
	"time"

	"movietix/internal/data/entity"
)

type HoldResponse struct {
	HoldID     string    `json:"hold_id"`
	ShowtimeID string    `json:"showtime_id"`
	SeatIDs    []string  `json:"seat_ids"`
	TotalPrice float64   `json:"total_price"`
	ExpiresAt  time.Time `json:"expires_at"`
}

func HoldToResponse(hold *entity.Hold) *HoldResponse {
	return &HoldResponse{
		HoldID:     hold.ID.String(),
		ShowtimeID: hold.ShowtimeID.String(),
		SeatIDs:    hold.SeatIDs,
		TotalPrice: hold.TotalPrice,
		ExpiresAt:  hold.ExpiresAt,
	}
}

type BookingResponse struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	ShowtimeID string    `json:"showtime_id"`
	UserID     string    `json:"user_id"`
	SeatIDs    []string  `json:"seat_ids"`
	TotalPrice float64   `json:"total_price"`
	PaymentRef string    `json:"payment_ref"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func BookingToResponse(booking *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:         booking.ID.String(),
		OrderID:    booking.OrderID,
		ShowtimeID: booking.ShowtimeID.String(),
		UserID:     booking.UserID,
		SeatIDs:    booking.SeatIDs,
		TotalPrice: booking.TotalPrice,
		PaymentRef: booking.PaymentRef,
		Status:     string(booking.Status),
		CreatedAt:  booking.CreatedAt,
	}
}

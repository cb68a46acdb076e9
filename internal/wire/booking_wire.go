package wire

import (
	"movietix/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	// ==================== RESERVATION ROUTES ====================
	// POST /api/showtimes/{id}/hold - Hold seats for a showtime
	r.Post("/api/showtimes/{id}/hold", bookingHandler.HoldSeats)

	// DELETE /api/holds/{id} - Release a hold before payment
	r.Delete("/api/holds/{id}", bookingHandler.ReleaseHold)

	// POST /api/pay - Confirm payment for a held booking
	r.Post("/api/pay", bookingHandler.ConfirmPayment)

	// POST /api/pay/fail - Report a failed payment attempt
	r.Post("/api/pay/fail", bookingHandler.FailPayment)

	// ==================== LEDGER ROUTES ====================
	// GET /api/users/{id}/bookings - View booking history
	r.Get("/api/users/{id}/bookings", bookingHandler.GetUserBookings)
}

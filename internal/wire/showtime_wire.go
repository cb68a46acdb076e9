package wire

import (
	"movietix/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireShowtime(r chi.Router, showtimeHandler *adaptor.ShowtimeHandler) {
	// ==================== PUBLIC ROUTES ====================
	// GET /api/showtimes - List open showtimes with occupancy
	r.Get("/api/showtimes", showtimeHandler.List)

	// GET /api/showtimes/{id} - Showtime details with occupancy
	r.Get("/api/showtimes/{id}", showtimeHandler.Get)

	// GET /api/showtimes/{id}/seats - Current seat map
	r.Get("/api/showtimes/{id}/seats", showtimeHandler.GetSeatMap)

	// ==================== ADMIN ROUTES ====================
	// POST /api/showtimes - Open a new showtime for sale
	r.Post("/api/showtimes", showtimeHandler.Open)

	// DELETE /api/showtimes/{id} - Retire a showtime from sale
	r.Delete("/api/showtimes/{id}", showtimeHandler.Retire)

	// POST /api/admin/showtimes/{id}/seed - Pre-book demo seats
	r.Post("/api/admin/showtimes/{id}/seed", showtimeHandler.SeedDemo)
}

package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"movietix/internal/dto/request"
	"movietix/internal/dto/response"
	"movietix/internal/usecase"
	"movietix/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ShowtimeHandler struct {
	showtime  usecase.ShowtimeService
	inventory usecase.InventoryService
	demoSeed  int64
	log       *zap.Logger
}

func NewShowtimeHandler(showtime usecase.ShowtimeService, inventory usecase.InventoryService, demoSeed int64, log *zap.Logger) *ShowtimeHandler {
	return &ShowtimeHandler{
		showtime:  showtime,
		inventory: inventory,
		demoSeed:  demoSeed,
		log:       log.With(zap.String("handler", "showtime")),
	}
}

// List handles GET /api/showtimes
func (h *ShowtimeHandler) List(w http.ResponseWriter, r *http.Request) {
	occupancies, err := h.showtime.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err, "list showtimes")
		return
	}

	showtimeResponses := make([]response.ShowtimeResponse, len(occupancies))
	for i, occ := range occupancies {
		showtimeResponses[i] = response.ShowtimeToResponse(occ.Showtime, occ.Booked, occ.Total)
	}

	utils.ResponseSuccess(w, "success", showtimeResponses)
}

// Open handles POST /api/showtimes
func (h *ShowtimeHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req request.OpenShowtimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid starts_at, expected RFC 3339", nil)
		return
	}

	showtime, err := h.showtime.Open(r.Context(), req.MovieTitle, req.Theater, startsAt)
	if err != nil {
		h.handleServiceError(w, err, "open showtime")
		return
	}

	utils.ResponseCreated(w, "success", response.ShowtimeToResponse(showtime, 0, showtime.TotalSeats()))
}

// Get handles GET /api/showtimes/{id}
func (h *ShowtimeHandler) Get(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid showtime ID", nil)
		return
	}

	showtime, err := h.showtime.Get(r.Context(), showtimeID)
	if err != nil {
		h.handleServiceError(w, err, "get showtime")
		return
	}

	booked, total, err := h.inventory.Occupancy(showtimeID)
	if err != nil {
		booked, total = 0, showtime.TotalSeats()
	}

	utils.ResponseSuccess(w, "success", response.ShowtimeToResponse(showtime, booked, total))
}

// Retire handles DELETE /api/showtimes/{id}
func (h *ShowtimeHandler) Retire(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid showtime ID", nil)
		return
	}

	if err := h.showtime.Retire(r.Context(), showtimeID); err != nil {
		h.handleServiceError(w, err, "retire showtime")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetSeatMap handles GET /api/showtimes/{id}/seats
func (h *ShowtimeHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid showtime ID", nil)
		return
	}

	showtime, err := h.inventory.Showtime(showtimeID)
	if err != nil {
		h.handleServiceError(w, err, "get seat map")
		return
	}

	seats, err := h.inventory.GetSeatMap(r.Context(), showtimeID)
	if err != nil {
		h.handleServiceError(w, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "success", response.SeatMapToResponse(showtime, seats))
}

// SeedDemo handles POST /api/admin/showtimes/{id}/seed
func (h *ShowtimeHandler) SeedDemo(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid showtime ID", nil)
		return
	}

	var req request.SeedDemoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if req.Fraction <= 0 || req.Fraction >= 1 {
		req.Fraction = 0.2
	}

	count, err := h.showtime.SeedDemoBookings(r.Context(), showtimeID, req.Fraction, utils.NewSeededRand(h.demoSeed))
	if err != nil {
		h.handleServiceError(w, err, "seed demo bookings")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]any{"seats_booked": count})
}

func (h *ShowtimeHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, usecase.ErrShowtimeNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrShowtimeRetired):
		h.log.Warn(operation+" failed - showtime retired", zap.Error(err))
		utils.ResponseGone(w, err.Error())

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"movietix/internal/dto/request"
	"movietix/internal/dto/response"
	"movietix/internal/usecase"
	"movietix/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type BookingHandler struct {
	reservation usecase.ReservationService
	ledger      usecase.BookingLedgerService
	log         *zap.Logger
}

func NewBookingHandler(reservation usecase.ReservationService, ledger usecase.BookingLedgerService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		reservation: reservation,
		ledger:      ledger,
		log:         log.With(zap.String("handler", "booking")),
	}
}

// HoldSeats handles POST /api/showtimes/{id}/hold
func (h *BookingHandler) HoldSeats(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid showtime ID", nil)
		return
	}

	var req request.HoldSeatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	hold, err := h.reservation.HoldSeats(r.Context(), showtimeID, req.SeatIDs, req.SessionID)
	if err != nil {
		h.handleServiceError(w, err, "hold seats")
		return
	}

	utils.ResponseCreated(w, "success", response.HoldToResponse(hold))
}

// ReleaseHold handles DELETE /api/holds/{id}
func (h *BookingHandler) ReleaseHold(w http.ResponseWriter, r *http.Request) {
	holdID, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid hold ID", nil)
		return
	}

	if err := h.reservation.ReleaseHold(r.Context(), holdID); err != nil {
		h.handleServiceError(w, err, "release hold")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// ConfirmPayment handles POST /api/pay
func (h *BookingHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req request.ConfirmPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	holdID, err := utils.ParseUUID(req.HoldID)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid hold ID", nil)
		return
	}

	booking, err := h.reservation.ConfirmPayment(r.Context(), holdID, req.PaymentRef)
	if err != nil {
		h.handleServiceError(w, err, "confirm payment")
		return
	}

	utils.ResponseCreated(w, "success", response.BookingToResponse(booking))
}

// FailPayment handles POST /api/pay/fail
func (h *BookingHandler) FailPayment(w http.ResponseWriter, r *http.Request) {
	var req request.FailPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	holdID, err := utils.ParseUUID(req.HoldID)
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid hold ID", nil)
		return
	}

	if err := h.reservation.FailPayment(r.Context(), holdID, req.Reason); err != nil {
		h.handleServiceError(w, err, "fail payment")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// GetUserBookings handles GET /api/users/{id}/bookings
func (h *BookingHandler) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if userID == "" {
		utils.ResponseBadRequest(w, "User ID is required", nil)
		return
	}

	req := &request.PaginatedRequest{
		Page:    utils.ParseInt(r.URL.Query().Get("page"), 1),
		PerPage: utils.ParseInt(r.URL.Query().Get("per_page"), 10),
	}

	bookings, total, err := h.ledger.ListByUser(r.Context(), userID, req.Limit(), req.Offset())
	if err != nil {
		h.handleServiceError(w, err, "get user bookings")
		return
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking)
	}

	utils.ResponseSuccess(w, "success", response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total))
}

func (h *BookingHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var unavailable *usecase.SeatUnavailableError

	switch {
	case errors.As(err, &unavailable):
		h.log.Warn(operation+" failed - seats unavailable",
			zap.Strings("conflicts", unavailable.Conflicts))
		utils.ResponseConflict(w, "Seats unavailable", map[string]any{"conflicts": unavailable.Conflicts})

	case errors.Is(err, usecase.ErrHoldExpired):
		h.log.Warn(operation+" failed - hold expired", zap.Error(err))
		utils.ResponseGone(w, err.Error())

	case errors.Is(err, usecase.ErrAlreadyCommitted):
		h.log.Warn(operation+" failed - already committed", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrHoldNotFound),
		errors.Is(err, usecase.ErrShowtimeNotFound):
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

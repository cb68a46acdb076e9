package adaptor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"movietix/internal/data/entity"
	"movietix/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubReservation struct {
	hold       *entity.Hold
	booking    *entity.Booking
	holdErr    error
	confirmErr error
	releaseErr error
	failErr    error
}

func (s *stubReservation) HoldSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []string, sessionID string) (*entity.Hold, error) {
	return s.hold, s.holdErr
}

func (s *stubReservation) ReleaseHold(ctx context.Context, holdID uuid.UUID) error {
	return s.releaseErr
}

func (s *stubReservation) ConfirmPayment(ctx context.Context, holdID uuid.UUID, paymentRef string) (*entity.Booking, error) {
	return s.booking, s.confirmErr
}

func (s *stubReservation) FailPayment(ctx context.Context, holdID uuid.UUID, reason string) error {
	return s.failErr
}

type stubLedger struct {
	bookings []*entity.Booking
}

func (s *stubLedger) Append(ctx context.Context, hold *entity.Hold, bookingID uuid.UUID, paymentRef string) (*entity.Booking, error) {
	return nil, nil
}

func (s *stubLedger) FindByHoldID(ctx context.Context, holdID uuid.UUID) (*entity.Booking, error) {
	return nil, nil
}

func (s *stubLedger) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Booking, int64, error) {
	return s.bookings, int64(len(s.bookings)), nil
}

func (s *stubLedger) ListByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Booking, error) {
	return s.bookings, nil
}

func bookingTestRouter(reservation usecase.ReservationService, ledger usecase.BookingLedgerService) *chi.Mux {
	handler := NewBookingHandler(reservation, ledger, zap.NewNop())

	r := chi.NewRouter()
	r.Post("/api/showtimes/{id}/hold", handler.HoldSeats)
	r.Delete("/api/holds/{id}", handler.ReleaseHold)
	r.Post("/api/pay", handler.ConfirmPayment)
	r.Get("/api/users/{id}/bookings", handler.GetUserBookings)
	return r
}

func TestHoldSeatsEndpoint_Success(t *testing.T) {
	hold := &entity.Hold{
		ID:         uuid.New(),
		ShowtimeID: uuid.New(),
		SeatIDs:    []string{"A1", "A2"},
		HolderID:   "sess-1",
		State:      entity.HoldActive,
		TotalPrice: 21.5,
		CreatedAt:  time.Now(),
		ExpiresAt:  time.Now().Add(5 * time.Minute),
	}
	router := bookingTestRouter(&stubReservation{hold: hold}, &stubLedger{})

	body := `{"seat_ids":["A1","A2"],"session_id":"sess-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/showtimes/"+hold.ShowtimeID.String()+"/hold", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Status bool `json:"status"`
		Data   struct {
			HoldID string `json:"hold_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Status)
	assert.Equal(t, hold.ID.String(), resp.Data.HoldID)
}

func TestHoldSeatsEndpoint_ConflictReports409(t *testing.T) {
	stub := &stubReservation{holdErr: &usecase.SeatUnavailableError{Conflicts: []string{"A2"}}}
	router := bookingTestRouter(stub, &stubLedger{})

	body := `{"seat_ids":["A2","A3"],"session_id":"sess-2"}`
	req := httptest.NewRequest(http.MethodPost, "/api/showtimes/"+uuid.NewString()+"/hold", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Errors struct {
			Conflicts []string `json:"conflicts"`
		} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"A2"}, resp.Errors.Conflicts)
}

func TestHoldSeatsEndpoint_ValidationFailure(t *testing.T) {
	router := bookingTestRouter(&stubReservation{}, &stubLedger{})

	// Missing session_id and empty seat list.
	req := httptest.NewRequest(http.MethodPost, "/api/showtimes/"+uuid.NewString()+"/hold", strings.NewReader(`{"seat_ids":[]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConfirmPaymentEndpoint_ExpiredHoldReports410(t *testing.T) {
	router := bookingTestRouter(&stubReservation{confirmErr: usecase.ErrHoldExpired}, &stubLedger{})

	body := `{"hold_id":"` + uuid.NewString() + `","payment_ref":"pay-001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/pay", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestConfirmPaymentEndpoint_UnknownHoldReports404(t *testing.T) {
	router := bookingTestRouter(&stubReservation{confirmErr: usecase.ErrHoldNotFound}, &stubLedger{})

	body := `{"hold_id":"` + uuid.NewString() + `","payment_ref":"pay-001"}`
	req := httptest.NewRequest(http.MethodPost, "/api/pay", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReleaseHoldEndpoint_CommittedHoldReports409(t *testing.T) {
	router := bookingTestRouter(&stubReservation{releaseErr: usecase.ErrAlreadyCommitted}, &stubLedger{})

	req := httptest.NewRequest(http.MethodDelete, "/api/holds/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetUserBookingsEndpoint_Paginates(t *testing.T) {
	booking := &entity.Booking{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
		OrderID:    "BOOK-20260901-120000-0001",
		HoldID:     uuid.New(),
		ShowtimeID: uuid.New(),
		UserID:     "user-1",
		SeatIDs:    []string{"A1"},
		TotalPrice: 11.5,
		Status:     entity.BookingStatusConfirmed,
	}
	router := bookingTestRouter(&stubReservation{}, &stubLedger{bookings: []*entity.Booking{booking}})

	req := httptest.NewRequest(http.MethodGet, "/api/users/user-1/bookings?page=1&per_page=10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Pagination struct {
				Total int `json:"total"`
			} `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Pagination.Total)
}

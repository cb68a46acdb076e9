package usecase

import (
	"context"
	"fmt"
	"time"

	"movietix/internal/data/entity"
	"movietix/internal/data/repository"
	"movietix/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingLedgerService is the append-only record of confirmed
// bookings. Append is idempotent on the originating hold id, not on
// caller retries, so a replayed confirmation returns the existing row.
type BookingLedgerService interface {
	Append(ctx context.Context, hold *entity.Hold, bookingID uuid.UUID, paymentRef string) (*entity.Booking, error)
	FindByHoldID(ctx context.Context, holdID uuid.UUID) (*entity.Booking, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Booking, int64, error)
	ListByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Booking, error)
}

type bookingLedgerService struct {
	repo repository.BookingRepository
	log  *zap.Logger
}

func NewBookingLedgerService(repo repository.BookingRepository, log *zap.Logger) BookingLedgerService {
	return &bookingLedgerService{
		repo: repo,
		log:  log.With(zap.String("service", "ledger")),
	}
}

func (s *bookingLedgerService) Append(ctx context.Context, hold *entity.Hold, bookingID uuid.UUID, paymentRef string) (*entity.Booking, error) {
	existing, err := s.repo.FindByHoldID(ctx, hold.ID)
	if err != nil {
		return nil, fmt.Errorf("check ledger for hold %s: %w", hold.ID.String(), err)
	}
	if existing != nil {
		s.log.Info("Ledger append replayed, returning existing booking",
			zap.String("hold_id", hold.ID.String()),
			zap.String("booking_id", existing.ID.String()),
		)
		return existing, nil
	}

	booking := &entity.Booking{
		BaseSimple: entity.BaseSimple{
			ID:        bookingID,
			CreatedAt: time.Now(),
		},
		OrderID:    utils.GenerateOrderID(),
		HoldID:     hold.ID,
		ShowtimeID: hold.ShowtimeID,
		UserID:     hold.HolderID,
		SeatIDs:    hold.SeatIDs,
		TotalPrice: hold.TotalPrice,
		PaymentRef: paymentRef,
		Status:     entity.BookingStatusConfirmed,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("append booking for hold %s: %w", hold.ID.String(), err)
	}

	s.log.Info("Booking appended to ledger",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", booking.OrderID),
		zap.String("hold_id", hold.ID.String()),
		zap.String("user_id", booking.UserID),
		zap.Int("seat_count", len(booking.SeatIDs)),
		zap.Float64("total_price", booking.TotalPrice),
	)

	return booking, nil
}

func (s *bookingLedgerService) FindByHoldID(ctx context.Context, holdID uuid.UUID) (*entity.Booking, error) {
	return s.repo.FindByHoldID(ctx, holdID)
}

func (s *bookingLedgerService) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Booking, int64, error) {
	bookings, err := s.repo.FindByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings for user %s: %w", userID, err)
	}

	total, err := s.repo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("count bookings for user %s: %w", userID, err)
	}

	return bookings, total, nil
}

func (s *bookingLedgerService) ListByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Booking, error) {
	return s.repo.FindByShowtimeID(ctx, showtimeID)
}

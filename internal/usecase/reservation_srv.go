package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"movietix/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AttemptState tracks a booking attempt through its lifecycle:
// INITIATED -> SEATS_HELD -> PAYMENT_PENDING -> CONFIRMED, with side
// exits to FAILED (payment declined or explicit release) and EXPIRED
// (TTL elapsed before confirmation).
type AttemptState string

const (
	AttemptInitiated      AttemptState = "INITIATED"
	AttemptSeatsHeld      AttemptState = "SEATS_HELD"
	AttemptPaymentPending AttemptState = "PAYMENT_PENDING"
	AttemptConfirmed      AttemptState = "CONFIRMED"
	AttemptFailed         AttemptState = "FAILED"
	AttemptExpired        AttemptState = "EXPIRED"
)

// ReservationService drives the per-attempt booking lifecycle. It is
// the only caller of the inventory's hold primitives and translates
// their typed failures into a small set of caller outcomes: re-select
// seats, restart the flow, or payment failed.
type ReservationService interface {
	HoldSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []string, sessionID string) (*entity.Hold, error)
	ReleaseHold(ctx context.Context, holdID uuid.UUID) error
	ConfirmPayment(ctx context.Context, holdID uuid.UUID, paymentRef string) (*entity.Booking, error)
	FailPayment(ctx context.Context, holdID uuid.UUID, reason string) error
}

type reservationService struct {
	inventory InventoryService
	pricing   PricingService
	ledger    BookingLedgerService
	notifier  NotificationService
	admin     AdminService
	holdTTL   time.Duration
	log       *zap.Logger

	amu      sync.Mutex
	attempts map[uuid.UUID]AttemptState

	cmu       sync.Mutex
	confirmMu map[uuid.UUID]*holdLock
}

// holdLock serializes confirmations for one hold. refs counts holders
// and waiters, so the map entry lives exactly as long as someone is
// inside or queued for the critical section.
type holdLock struct {
	mu   sync.Mutex
	refs int
}

func NewReservationService(
	inventory InventoryService,
	pricing PricingService,
	ledger BookingLedgerService,
	notifier NotificationService,
	admin AdminService,
	holdTTL time.Duration,
	log *zap.Logger,
) ReservationService {
	return &reservationService{
		inventory: inventory,
		pricing:   pricing,
		ledger:    ledger,
		notifier:  notifier,
		admin:     admin,
		holdTTL:   holdTTL,
		log:       log.With(zap.String("service", "reservation")),
		attempts:  make(map[uuid.UUID]AttemptState),
		confirmMu: make(map[uuid.UUID]*holdLock),
	}
}

// HoldSeats places an atomic hold on the requested seats and snapshots
// the price against the current rate table. A conflict leaves the
// attempt in INITIATED so the caller can re-select.
func (s *reservationService) HoldSeats(ctx context.Context, showtimeID uuid.UUID, seatIDs []string, sessionID string) (*entity.Hold, error) {
	s.log.Debug("Booking attempt initiated",
		zap.String("showtime_id", showtimeID.String()),
		zap.String("session_id", sessionID),
		zap.Strings("seat_ids", seatIDs),
	)

	// Collapse repeats up front so the priced set and the held set are
	// the same seats.
	seatIDs = dedupe(seatIDs)

	settings := s.admin.GetSettings()

	tiers, err := s.inventory.SeatTiers(showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}

	total := s.pricing.PriceSeats(tiers, settings.Pricing)

	hold, err := s.inventory.PlaceHold(ctx, showtimeID, seatIDs, sessionID, s.holdTTL, total)
	if err != nil {
		var unavailable *SeatUnavailableError
		if errors.As(err, &unavailable) {
			s.log.Info("Hold rejected, seats unavailable",
				zap.String("showtime_id", showtimeID.String()),
				zap.String("session_id", sessionID),
				zap.Strings("conflicts", unavailable.Conflicts),
			)
		}
		return nil, err
	}

	// Price is snapshotted on the hold, so the attempt moves straight
	// through SEATS_HELD into PAYMENT_PENDING.
	s.transition(hold.ID, AttemptSeatsHeld)
	s.transition(hold.ID, AttemptPaymentPending)

	return hold, nil
}

// ReleaseHold abandons a booking attempt explicitly.
func (s *reservationService) ReleaseHold(ctx context.Context, holdID uuid.UUID) error {
	if err := s.inventory.ReleaseHold(ctx, holdID); err != nil {
		return err
	}

	s.transition(holdID, AttemptFailed)
	return nil
}

// ConfirmPayment commits the hold, appends the booking to the ledger
// and evaluates capacity thresholds. Replays for an already-committed
// hold return the identical booking without double effects.
func (s *reservationService) ConfirmPayment(ctx context.Context, holdID uuid.UUID, paymentRef string) (*entity.Booking, error) {
	lock := s.lockHold(holdID)
	lock.mu.Lock()
	defer func() {
		lock.mu.Unlock()
		s.unlockHold(holdID, lock)
	}()

	if existing, err := s.ledger.FindByHoldID(ctx, holdID); err == nil && existing != nil {
		return existing, nil
	}

	bookingID := uuid.New()

	hold, err := s.inventory.CommitHold(ctx, holdID, bookingID)
	if err != nil {
		if errors.Is(err, ErrHoldExpired) {
			s.transition(holdID, AttemptExpired)
		}
		return nil, err
	}

	booking, err := s.ledger.Append(ctx, hold, bookingID, paymentRef)
	if err != nil {
		s.log.Error("Seats committed but ledger append failed",
			zap.Error(err),
			zap.String("hold_id", holdID.String()),
		)
		return nil, err
	}

	s.transition(holdID, AttemptConfirmed)

	s.evaluateThresholds(ctx, hold.ShowtimeID)

	return booking, nil
}

// FailPayment releases the hold after an external payment failure. No
// booking is ever created for the attempt.
func (s *reservationService) FailPayment(ctx context.Context, holdID uuid.UUID, reason string) error {
	err := s.inventory.ReleaseHold(ctx, holdID)
	if errors.Is(err, ErrAlreadyCommitted) {
		return err
	}
	if errors.Is(err, ErrHoldNotFound) {
		// Sweep got there first; the caller's outcome is the same.
		s.log.Info("Payment failure for hold already released",
			zap.String("hold_id", holdID.String()),
			zap.String("reason", reason),
		)
		s.transition(holdID, AttemptExpired)
		return nil
	}
	if err != nil {
		return err
	}

	s.transition(holdID, AttemptFailed)

	s.log.Info("Payment failed, hold released",
		zap.String("hold_id", holdID.String()),
		zap.String("reason", reason),
	)

	return nil
}

func (s *reservationService) evaluateThresholds(ctx context.Context, showtimeID uuid.UUID) {
	showtime, err := s.inventory.Showtime(showtimeID)
	if err != nil {
		s.log.Warn("Skipping threshold evaluation, showtime gone",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return
	}

	booked, _, err := s.inventory.Occupancy(showtimeID)
	if err != nil {
		s.log.Warn("Skipping threshold evaluation, occupancy unavailable",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
		return
	}

	thresholds := s.admin.GetSettings().Thresholds
	if _, err := s.notifier.EvaluateOccupancy(ctx, showtime, booked, thresholds); err != nil {
		s.log.Warn("Threshold evaluation failed",
			zap.Error(err),
			zap.String("showtime_id", showtimeID.String()),
		)
	}
}

// transition records the attempt's new state. Terminal states drop the
// attempt from tracking entirely so the map only ever holds in-flight
// attempts; the log line is the durable record.
func (s *reservationService) transition(holdID uuid.UUID, next AttemptState) {
	s.amu.Lock()
	prev, ok := s.attempts[holdID]
	if !ok {
		prev = AttemptInitiated
	}
	switch next {
	case AttemptConfirmed, AttemptFailed, AttemptExpired:
		delete(s.attempts, holdID)
	default:
		s.attempts[holdID] = next
	}
	s.amu.Unlock()

	s.log.Info("Booking attempt transition",
		zap.String("hold_id", holdID.String()),
		zap.String("from", string(prev)),
		zap.String("to", string(next)),
	)
}

// lockHold serializes confirmations per hold so a racing replay cannot
// append twice before the first ledger row lands. Every caller of the
// same hold gets the same lock for as long as any of them is still
// holding or waiting on it.
func (s *reservationService) lockHold(holdID uuid.UUID) *holdLock {
	s.cmu.Lock()
	defer s.cmu.Unlock()

	lock, ok := s.confirmMu[holdID]
	if !ok {
		lock = &holdLock{}
		s.confirmMu[holdID] = lock
	}
	lock.refs++
	return lock
}

func (s *reservationService) unlockHold(holdID uuid.UUID, lock *holdLock) {
	s.cmu.Lock()
	defer s.cmu.Unlock()

	lock.refs--
	if lock.refs == 0 {
		delete(s.confirmMu, holdID)
	}
}

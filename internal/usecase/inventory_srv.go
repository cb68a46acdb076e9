package usecase

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"movietix/internal/data/entity"
	"movietix/internal/data/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryService owns per-showtime seat state and is the only
// component allowed to mutate it. All hold/commit primitives are
// atomic under a per-showtime lock, so "check N seats, then mark N
// seats" is a single indivisible step and two buyers racing for
// overlapping seats can never both win.
type InventoryService interface {
	OpenShowtime(ctx context.Context, showtime *entity.Showtime) error
	RetireShowtime(ctx context.Context, showtimeID uuid.UUID) error
	Rehydrate(ctx context.Context) error

	GetSeatMap(ctx context.Context, showtimeID uuid.UUID) ([]entity.Seat, error)
	Showtime(showtimeID uuid.UUID) (*entity.Showtime, error)
	SeatTiers(showtimeID uuid.UUID, seatIDs []string) ([]entity.SeatTier, error)
	Occupancy(showtimeID uuid.UUID) (booked, total int, err error)

	PlaceHold(ctx context.Context, showtimeID uuid.UUID, seatIDs []string, holderID string, ttl time.Duration, totalPrice float64) (*entity.Hold, error)
	ReleaseHold(ctx context.Context, holdID uuid.UUID) error
	CommitHold(ctx context.Context, holdID, bookingID uuid.UUID) (*entity.Hold, error)

	SweepExpired(ctx context.Context) int
	RunSweeper(ctx context.Context, interval time.Duration)

	PreBookRandom(ctx context.Context, showtimeID uuid.UUID, fraction float64, rng *rand.Rand) (int, error)
}

// seatMap is the authoritative state for one showtime. Its mutex is
// the showtime's serialization point; the repository rows behind it
// are write-through snapshots for restart recovery.
type seatMap struct {
	mu       sync.Mutex
	showtime entity.Showtime
	seats    map[string]*entity.Seat
	order    []string // row-major seat ids, for stable snapshots
	holds    map[uuid.UUID]*entity.Hold
}

type inventoryService struct {
	mu   sync.RWMutex
	maps map[uuid.UUID]*seatMap

	hmu       sync.Mutex
	holdIndex map[uuid.UUID]uuid.UUID // hold id -> showtime id

	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewInventoryService(repo *repository.Repository, log *zap.Logger) InventoryService {
	return &inventoryService{
		maps:      make(map[uuid.UUID]*seatMap),
		holdIndex: make(map[uuid.UUID]uuid.UUID),
		repo:      repo,
		log:       log.With(zap.String("service", "inventory")),
		now:       time.Now,
	}
}

// ==================== LIFECYCLE ====================

// OpenShowtime generates the seat map from the showtime's frozen
// layout and registers it for sale. Opening an already-open showtime
// is a no-op.
func (s *inventoryService) OpenShowtime(ctx context.Context, showtime *entity.Showtime) error {
	s.mu.Lock()
	if _, ok := s.maps[showtime.ID]; ok {
		s.mu.Unlock()
		return nil
	}

	sm := newSeatMap(showtime)
	s.maps[showtime.ID] = sm
	s.mu.Unlock()

	seats := sm.snapshot()
	if err := s.repo.SeatState.ReplaceForShowtime(ctx, showtime.ID, seats); err != nil {
		s.log.Warn("Failed to persist seat map snapshot",
			zap.Error(err),
			zap.String("showtime_id", showtime.ID.String()),
		)
	}

	s.log.Info("Showtime opened for sale",
		zap.String("showtime_id", showtime.ID.String()),
		zap.Int("rows", showtime.Rows),
		zap.Int("seats_per_row", showtime.SeatsPerRow),
	)

	return nil
}

func newSeatMap(showtime *entity.Showtime) *seatMap {
	sm := &seatMap{
		showtime: *showtime,
		seats:    make(map[string]*entity.Seat, showtime.TotalSeats()),
		order:    make([]string, 0, showtime.TotalSeats()),
		holds:    make(map[uuid.UUID]*entity.Hold),
	}

	for r := 0; r < showtime.Rows; r++ {
		for n := 1; n <= showtime.SeatsPerRow; n++ {
			id := entity.SeatID(r, n)
			sm.seats[id] = &entity.Seat{
				ID:     id,
				Row:    string(rune('A' + r)),
				Number: n,
				Tier:   entity.TierForRow(r),
				Status: entity.SeatStatus{State: entity.SeatAvailable},
			}
			sm.order = append(sm.order, id)
		}
	}

	return sm
}

// RetireShowtime tears the seat map down and drops its persisted
// state. Bookings in the ledger are untouched.
func (s *inventoryService) RetireShowtime(ctx context.Context, showtimeID uuid.UUID) error {
	s.mu.Lock()
	sm, ok := s.maps[showtimeID]
	if !ok {
		s.mu.Unlock()
		return ErrShowtimeNotFound
	}
	delete(s.maps, showtimeID)
	s.mu.Unlock()

	sm.mu.Lock()
	holdIDs := make([]uuid.UUID, 0, len(sm.holds))
	for id := range sm.holds {
		holdIDs = append(holdIDs, id)
	}
	sm.mu.Unlock()

	s.hmu.Lock()
	for _, id := range holdIDs {
		delete(s.holdIndex, id)
	}
	s.hmu.Unlock()

	if err := s.repo.SeatState.DeleteByShowtime(ctx, showtimeID); err != nil {
		s.log.Warn("Failed to drop persisted seat states", zap.Error(err))
	}
	if err := s.repo.Hold.DeleteByShowtime(ctx, showtimeID); err != nil {
		s.log.Warn("Failed to drop persisted holds", zap.Error(err))
	}

	s.log.Info("Showtime retired", zap.String("showtime_id", showtimeID.String()))
	return nil
}

// Rehydrate rebuilds the in-memory state from persisted snapshots
// after a restart. Holds past their expiry are left to the sweep.
func (s *inventoryService) Rehydrate(ctx context.Context) error {
	showtimes, err := s.repo.Showtime.FindOpen(ctx)
	if err != nil {
		return err
	}

	for _, showtime := range showtimes {
		seats, err := s.repo.SeatState.FindByShowtime(ctx, showtime.ID)
		if err != nil {
			return err
		}

		sm := newSeatMap(showtime)
		for _, seat := range seats {
			if existing, ok := sm.seats[seat.ID]; ok {
				existing.Status = seat.Status
			}
		}

		holds, err := s.repo.Hold.FindActiveByShowtime(ctx, showtime.ID)
		if err != nil {
			return err
		}
		for _, hold := range holds {
			sm.holds[hold.ID] = hold
		}

		s.mu.Lock()
		s.maps[showtime.ID] = sm
		s.mu.Unlock()

		s.hmu.Lock()
		for _, hold := range holds {
			s.holdIndex[hold.ID] = showtime.ID
		}
		s.hmu.Unlock()

		s.log.Info("Showtime rehydrated",
			zap.String("showtime_id", showtime.ID.String()),
			zap.Int("seats", len(seats)),
			zap.Int("active_holds", len(holds)),
		)
	}

	return nil
}

// ==================== READS ====================

func (s *inventoryService) lookup(showtimeID uuid.UUID) (*seatMap, error) {
	s.mu.RLock()
	sm, ok := s.maps[showtimeID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrShowtimeNotFound
	}
	return sm, nil
}

// GetSeatMap returns a row-major snapshot of the current seat state.
// Overdue holds are expired in passing so a stale hold never shows a
// seat as taken longer than its TTL.
func (s *inventoryService) GetSeatMap(ctx context.Context, showtimeID uuid.UUID) ([]entity.Seat, error) {
	sm, err := s.lookup(showtimeID)
	if err != nil {
		return nil, err
	}

	sm.mu.Lock()
	expired := sm.expireOverdue(s.now())
	freed := sm.freedBy(expired)
	seats := sm.snapshot()
	sm.mu.Unlock()

	s.persistExpired(ctx, showtimeID, expired, freed)

	return seats, nil
}

func (s *inventoryService) Showtime(showtimeID uuid.UUID) (*entity.Showtime, error) {
	sm, err := s.lookup(showtimeID)
	if err != nil {
		return nil, err
	}

	sm.mu.Lock()
	showtime := sm.showtime
	sm.mu.Unlock()

	return &showtime, nil
}

// SeatTiers resolves the tier of each requested seat. Tiers are
// immutable once the map is generated, so this does not need to be
// part of the hold's critical section.
func (s *inventoryService) SeatTiers(showtimeID uuid.UUID, seatIDs []string) ([]entity.SeatTier, error) {
	sm, err := s.lookup(showtimeID)
	if err != nil {
		return nil, err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	tiers := make([]entity.SeatTier, 0, len(seatIDs))
	var unknown []string
	for _, id := range seatIDs {
		seat, ok := sm.seats[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		tiers = append(tiers, seat.Tier)
	}

	if len(unknown) > 0 {
		return nil, &SeatUnavailableError{Conflicts: unknown}
	}

	return tiers, nil
}

func (s *inventoryService) Occupancy(showtimeID uuid.UUID) (int, int, error) {
	sm, err := s.lookup(showtimeID)
	if err != nil {
		return 0, 0, err
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	booked := 0
	for _, seat := range sm.seats {
		if seat.Status.State == entity.SeatBooked {
			booked++
		}
	}

	return booked, len(sm.seats), nil
}

// ==================== HOLD PRIMITIVES ====================

// PlaceHold is atomic all-or-nothing: either every requested seat was
// available and all are now held under one hold id, or nothing changed
// and the exact conflicting seat ids are reported.
func (s *inventoryService) PlaceHold(ctx context.Context, showtimeID uuid.UUID, seatIDs []string, holderID string, ttl time.Duration, totalPrice float64) (*entity.Hold, error) {
	sm, err := s.lookup(showtimeID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	sm.mu.Lock()

	if sm.showtime.Retired {
		sm.mu.Unlock()
		return nil, ErrShowtimeRetired
	}

	// Batch-expire overdue holds first so their seats count as free.
	expired := sm.expireOverdue(now)
	freed := sm.freedBy(expired)

	requested := dedupe(seatIDs)
	var conflicts []string
	for _, id := range requested {
		seat, ok := sm.seats[id]
		if !ok || !seat.Status.Available() {
			conflicts = append(conflicts, id)
		}
	}

	if len(conflicts) > 0 {
		sm.mu.Unlock()
		s.persistExpired(ctx, showtimeID, expired, freed)
		return nil, &SeatUnavailableError{Conflicts: conflicts}
	}

	hold := &entity.Hold{
		ID:         uuid.New(),
		ShowtimeID: showtimeID,
		SeatIDs:    requested,
		HolderID:   holderID,
		State:      entity.HoldActive,
		TotalPrice: totalPrice,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}

	for _, id := range requested {
		sm.seats[id].Status = entity.SeatStatus{
			State:     entity.SeatHeld,
			HoldID:    hold.ID,
			ExpiresAt: hold.ExpiresAt,
		}
	}
	sm.holds[hold.ID] = hold

	held := sm.copySeats(requested)
	sm.mu.Unlock()

	s.hmu.Lock()
	s.holdIndex[hold.ID] = showtimeID
	s.hmu.Unlock()

	s.persistExpired(ctx, showtimeID, expired, freed)
	if err := s.repo.Hold.Create(ctx, hold); err != nil {
		s.log.Warn("Failed to persist hold", zap.Error(err), zap.String("hold_id", hold.ID.String()))
	}
	if err := s.repo.SeatState.UpdateStatuses(ctx, showtimeID, held); err != nil {
		s.log.Warn("Failed to persist held seats", zap.Error(err), zap.String("hold_id", hold.ID.String()))
	}

	s.log.Info("Hold placed",
		zap.String("hold_id", hold.ID.String()),
		zap.String("showtime_id", showtimeID.String()),
		zap.String("holder_id", holderID),
		zap.Strings("seat_ids", requested),
		zap.Time("expires_at", hold.ExpiresAt),
	)

	holdCopy := *hold
	return &holdCopy, nil
}

func (s *inventoryService) holdShowtime(holdID uuid.UUID) (uuid.UUID, bool) {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	showtimeID, ok := s.holdIndex[holdID]
	return showtimeID, ok
}

// ReleaseHold returns all seats of an active hold to available.
// Releasing a committed hold is an error, never a silent no-op;
// releasing an already released or expired hold is idempotent.
func (s *inventoryService) ReleaseHold(ctx context.Context, holdID uuid.UUID) error {
	showtimeID, ok := s.holdShowtime(holdID)
	if !ok {
		return ErrHoldNotFound
	}

	sm, err := s.lookup(showtimeID)
	if err != nil {
		return ErrHoldNotFound
	}

	sm.mu.Lock()
	hold, ok := sm.holds[holdID]
	if !ok {
		sm.mu.Unlock()
		return ErrHoldNotFound
	}

	switch hold.State {
	case entity.HoldCommitted:
		sm.mu.Unlock()
		return ErrAlreadyCommitted
	case entity.HoldReleased, entity.HoldExpired:
		sm.mu.Unlock()
		return nil
	}

	sm.releaseSeats(hold)
	hold.State = entity.HoldReleased
	released := sm.copySeats(hold.SeatIDs)
	sm.mu.Unlock()

	if err := s.repo.Hold.UpdateState(ctx, holdID, entity.HoldReleased); err != nil {
		s.log.Warn("Failed to persist hold release", zap.Error(err), zap.String("hold_id", holdID.String()))
	}
	if err := s.repo.SeatState.UpdateStatuses(ctx, showtimeID, released); err != nil {
		s.log.Warn("Failed to persist released seats", zap.Error(err), zap.String("hold_id", holdID.String()))
	}

	s.log.Info("Hold released",
		zap.String("hold_id", holdID.String()),
		zap.String("showtime_id", showtimeID.String()),
	)

	return nil
}

// CommitHold transitions every seat of a still-valid hold to booked.
// Committing an already-committed hold is a no-op returning the same
// hold, so retried confirmations have no double effect.
func (s *inventoryService) CommitHold(ctx context.Context, holdID, bookingID uuid.UUID) (*entity.Hold, error) {
	showtimeID, ok := s.holdShowtime(holdID)
	if !ok {
		return nil, ErrHoldNotFound
	}

	sm, err := s.lookup(showtimeID)
	if err != nil {
		return nil, ErrHoldNotFound
	}

	now := s.now()

	sm.mu.Lock()
	hold, ok := sm.holds[holdID]
	if !ok {
		sm.mu.Unlock()
		return nil, ErrHoldNotFound
	}

	switch hold.State {
	case entity.HoldCommitted:
		holdCopy := *hold
		sm.mu.Unlock()
		return &holdCopy, nil
	case entity.HoldReleased:
		sm.mu.Unlock()
		return nil, ErrHoldNotFound
	case entity.HoldExpired:
		sm.mu.Unlock()
		return nil, ErrHoldExpired
	}

	if hold.ExpiredAt(now) {
		sm.releaseSeats(hold)
		hold.State = entity.HoldExpired
		freed := sm.copySeats(hold.SeatIDs)
		sm.mu.Unlock()

		if err := s.repo.Hold.UpdateState(ctx, holdID, entity.HoldExpired); err != nil {
			s.log.Warn("Failed to persist hold expiry", zap.Error(err), zap.String("hold_id", holdID.String()))
		}
		if err := s.repo.SeatState.UpdateStatuses(ctx, showtimeID, freed); err != nil {
			s.log.Warn("Failed to persist expired seats", zap.Error(err), zap.String("hold_id", holdID.String()))
		}

		return nil, ErrHoldExpired
	}

	for _, id := range hold.SeatIDs {
		sm.seats[id].Status = entity.SeatStatus{
			State:     entity.SeatBooked,
			BookingID: bookingID,
		}
	}
	hold.State = entity.HoldCommitted
	booked := sm.copySeats(hold.SeatIDs)
	holdCopy := *hold
	sm.mu.Unlock()

	if err := s.repo.Hold.UpdateState(ctx, holdID, entity.HoldCommitted); err != nil {
		s.log.Warn("Failed to persist hold commit", zap.Error(err), zap.String("hold_id", holdID.String()))
	}
	if err := s.repo.SeatState.UpdateStatuses(ctx, showtimeID, booked); err != nil {
		s.log.Warn("Failed to persist booked seats", zap.Error(err), zap.String("hold_id", holdID.String()))
	}

	s.log.Info("Hold committed",
		zap.String("hold_id", holdID.String()),
		zap.String("booking_id", bookingID.String()),
		zap.String("showtime_id", showtimeID.String()),
	)

	return &holdCopy, nil
}

// ==================== TTL SWEEP ====================

// SweepExpired releases every active hold past its expiry. Failures
// are logged, never surfaced: no caller is waiting on a sweep.
//
// It also evicts holds that reached a terminal state before this pass,
// so the per-showtime hold records and the hold index stay bounded.
// Eviction runs before expiry, giving freshly expired holds one sweep
// interval during which commits still report ErrHoldExpired; after
// that they resolve to ErrHoldNotFound like any swept hold.
func (s *inventoryService) SweepExpired(ctx context.Context) int {
	s.mu.RLock()
	maps := make([]*seatMap, 0, len(s.maps))
	for _, sm := range s.maps {
		maps = append(maps, sm)
	}
	s.mu.RUnlock()

	now := s.now()
	total := 0

	for _, sm := range maps {
		sm.mu.Lock()
		var evicted []uuid.UUID
		for id, hold := range sm.holds {
			if hold.State != entity.HoldActive {
				delete(sm.holds, id)
				evicted = append(evicted, id)
			}
		}
		expired := sm.expireOverdue(now)
		freed := sm.freedBy(expired)
		showtimeID := sm.showtime.ID
		sm.mu.Unlock()

		if len(evicted) > 0 {
			s.hmu.Lock()
			for _, id := range evicted {
				delete(s.holdIndex, id)
			}
			s.hmu.Unlock()

			s.log.Debug("Terminal holds evicted",
				zap.String("showtime_id", showtimeID.String()),
				zap.Int("count", len(evicted)),
			)
		}

		s.persistExpired(ctx, showtimeID, expired, freed)
		total += len(expired)
	}

	return total
}

// RunSweeper drives the periodic TTL sweep until ctx is cancelled.
func (s *inventoryService) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.Info("TTL sweeper started", zap.Duration("interval", interval))

	for {
		select {
		case <-ctx.Done():
			s.log.Info("TTL sweeper stopped")
			return
		case <-ticker.C:
			if released := s.SweepExpired(ctx); released > 0 {
				s.log.Info("Expired holds swept", zap.Int("count", released))
			}
		}
	}
}

// persistExpired writes the terminal state of lazily or periodically
// expired holds and their freed seats. Best effort; the in-memory
// state is authoritative.
func (s *inventoryService) persistExpired(ctx context.Context, showtimeID uuid.UUID, expired []*entity.Hold, freed []entity.Seat) {
	for _, hold := range expired {
		if err := s.repo.Hold.UpdateState(ctx, hold.ID, entity.HoldExpired); err != nil {
			s.log.Warn("Failed to persist hold expiry", zap.Error(err), zap.String("hold_id", hold.ID.String()))
		}

		s.log.Info("Hold expired",
			zap.String("hold_id", hold.ID.String()),
			zap.String("showtime_id", showtimeID.String()),
			zap.Strings("seat_ids", hold.SeatIDs),
		)
	}

	if len(freed) > 0 {
		if err := s.repo.SeatState.UpdateStatuses(ctx, showtimeID, freed); err != nil {
			s.log.Warn("Failed to persist expired seats", zap.Error(err), zap.String("showtime_id", showtimeID.String()))
		}
	}
}

// ==================== DEMO SEEDING ====================

// PreBookRandom marks a fraction of available seats as booked using
// the supplied generator. A seeded generator makes fixtures
// reproducible across runs.
func (s *inventoryService) PreBookRandom(ctx context.Context, showtimeID uuid.UUID, fraction float64, rng *rand.Rand) (int, error) {
	sm, err := s.lookup(showtimeID)
	if err != nil {
		return 0, err
	}

	sm.mu.Lock()
	count := 0
	var changed []string
	for _, id := range sm.order {
		seat := sm.seats[id]
		if !seat.Status.Available() {
			continue
		}
		if rng.Float64() < fraction {
			seat.Status = entity.SeatStatus{
				State:     entity.SeatBooked,
				BookingID: uuid.New(),
			}
			changed = append(changed, id)
			count++
		}
	}
	seats := sm.copySeats(changed)
	sm.mu.Unlock()

	if err := s.repo.SeatState.UpdateStatuses(ctx, showtimeID, seats); err != nil {
		s.log.Warn("Failed to persist pre-booked seats", zap.Error(err))
	}

	s.log.Info("Seats pre-booked for demo",
		zap.String("showtime_id", showtimeID.String()),
		zap.Int("count", count),
	)

	return count, nil
}

// ==================== INTERNAL ====================

// expireOverdue releases seats of active holds past expiry. Caller
// must hold sm.mu.
func (sm *seatMap) expireOverdue(now time.Time) []*entity.Hold {
	var expired []*entity.Hold
	for _, hold := range sm.holds {
		if hold.State != entity.HoldActive || !hold.ExpiredAt(now) {
			continue
		}
		sm.releaseSeats(hold)
		hold.State = entity.HoldExpired
		expired = append(expired, hold)
	}
	return expired
}

// releaseSeats returns a hold's seats to available. Caller must hold
// sm.mu and update the hold state itself.
func (sm *seatMap) releaseSeats(hold *entity.Hold) {
	for _, id := range hold.SeatIDs {
		seat, ok := sm.seats[id]
		if !ok {
			continue
		}
		if seat.Status.State == entity.SeatHeld && seat.Status.HoldID == hold.ID {
			seat.Status = entity.SeatStatus{State: entity.SeatAvailable}
		}
	}
}

// freedBy copies the seats released by the given expired holds.
// Caller must hold sm.mu.
func (sm *seatMap) freedBy(expired []*entity.Hold) []entity.Seat {
	var freed []entity.Seat
	for _, hold := range expired {
		freed = append(freed, sm.copySeats(hold.SeatIDs)...)
	}
	return freed
}

// snapshot copies all seats in row-major order. Caller must hold sm.mu.
func (sm *seatMap) snapshot() []entity.Seat {
	seats := make([]entity.Seat, 0, len(sm.order))
	for _, id := range sm.order {
		seats = append(seats, *sm.seats[id])
	}
	return seats
}

// copySeats copies the named seats. Caller must hold sm.mu.
func (sm *seatMap) copySeats(seatIDs []string) []entity.Seat {
	seats := make([]entity.Seat, 0, len(seatIDs))
	for _, id := range seatIDs {
		if seat, ok := sm.seats[id]; ok {
			seats = append(seats, *seat)
		}
	}
	return seats
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

package usecase

import (
	"context"
	"errors"
	"sync"

	"movietix/internal/data/entity"
	"movietix/internal/data/repository"

	"github.com/google/uuid"
)

// In-memory repository implementations backing the service tests.
// They mirror the pgx repositories' contract: lookups that find
// nothing return (nil, nil), not an error.

type memShowtimeRepo struct {
	mu        sync.Mutex
	showtimes map[uuid.UUID]*entity.Showtime
}

func newMemShowtimeRepo() *memShowtimeRepo {
	return &memShowtimeRepo{showtimes: make(map[uuid.UUID]*entity.Showtime)}
}

func (r *memShowtimeRepo) Create(ctx context.Context, showtime *entity.Showtime) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *showtime
	r.showtimes[showtime.ID] = &cp
	return nil
}

func (r *memShowtimeRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Showtime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	showtime, ok := r.showtimes[id]
	if !ok {
		return nil, nil
	}
	cp := *showtime
	return &cp, nil
}

func (r *memShowtimeRepo) FindOpen(ctx context.Context) ([]*entity.Showtime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Showtime
	for _, showtime := range r.showtimes {
		if showtime.Retired {
			continue
		}
		cp := *showtime
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memShowtimeRepo) SetRetired(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	showtime, ok := r.showtimes[id]
	if !ok {
		return errors.New("showtime not found")
	}
	showtime.Retired = true
	return nil
}

type memSeatStateRepo struct {
	mu    sync.Mutex
	seats map[uuid.UUID]map[string]entity.Seat
}

func newMemSeatStateRepo() *memSeatStateRepo {
	return &memSeatStateRepo{seats: make(map[uuid.UUID]map[string]entity.Seat)}
}

func (r *memSeatStateRepo) ReplaceForShowtime(ctx context.Context, showtimeID uuid.UUID, seats []entity.Seat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make(map[string]entity.Seat, len(seats))
	for _, seat := range seats {
		rows[seat.ID] = seat
	}
	r.seats[showtimeID] = rows
	return nil
}

func (r *memSeatStateRepo) UpdateStatuses(ctx context.Context, showtimeID uuid.UUID, seats []entity.Seat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows, ok := r.seats[showtimeID]
	if !ok {
		return nil
	}
	for _, seat := range seats {
		rows[seat.ID] = seat
	}
	return nil
}

func (r *memSeatStateRepo) FindByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]entity.Seat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Seat
	for _, seat := range r.seats[showtimeID] {
		out = append(out, seat)
	}
	return out, nil
}

func (r *memSeatStateRepo) DeleteByShowtime(ctx context.Context, showtimeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.seats, showtimeID)
	return nil
}

type memHoldRepo struct {
	mu    sync.Mutex
	holds map[uuid.UUID]*entity.Hold
}

func newMemHoldRepo() *memHoldRepo {
	return &memHoldRepo{holds: make(map[uuid.UUID]*entity.Hold)}
}

func (r *memHoldRepo) Create(ctx context.Context, hold *entity.Hold) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *hold
	r.holds[hold.ID] = &cp
	return nil
}

func (r *memHoldRepo) UpdateState(ctx context.Context, id uuid.UUID, state entity.HoldState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	hold, ok := r.holds[id]
	if !ok {
		return errors.New("hold not found")
	}
	hold.State = state
	return nil
}

func (r *memHoldRepo) FindActiveByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Hold, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Hold
	for _, hold := range r.holds {
		if hold.ShowtimeID == showtimeID && hold.State == entity.HoldActive {
			cp := *hold
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memHoldRepo) DeleteByShowtime(ctx context.Context, showtimeID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, hold := range r.holds {
		if hold.ShowtimeID == showtimeID {
			delete(r.holds, id)
		}
	}
	return nil
}

type memBookingRepo struct {
	mu       sync.Mutex
	bookings []*entity.Booking
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{}
}

func (r *memBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *booking
	r.bookings = append(r.bookings, &cp)
	return nil
}

func (r *memBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, booking := range r.bookings {
		if booking.ID == id {
			cp := *booking
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memBookingRepo) FindByHoldID(ctx context.Context, holdID uuid.UUID) (*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, booking := range r.bookings {
		if booking.HoldID == holdID {
			cp := *booking
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memBookingRepo) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Booking
	for _, booking := range r.bookings {
		if booking.UserID == userID {
			cp := *booking
			matched = append(matched, &cp)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memBookingRepo) CountByUserID(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, booking := range r.bookings {
		if booking.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (r *memBookingRepo) FindByShowtimeID(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Booking
	for _, booking := range r.bookings {
		if booking.ShowtimeID == showtimeID {
			cp := *booking
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memSettingsRepo struct {
	mu       sync.Mutex
	settings *entity.AdminSettings
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{}
}

func (r *memSettingsRepo) Get(ctx context.Context) (*entity.AdminSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.settings == nil {
		return nil, nil
	}
	cp := *r.settings
	return &cp, nil
}

func (r *memSettingsRepo) Save(ctx context.Context, settings *entity.AdminSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *settings
	r.settings = &cp
	return nil
}

type memNotificationRepo struct {
	mu            sync.Mutex
	notifications []*entity.Notification
	watermarks    map[uuid.UUID]int
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{watermarks: make(map[uuid.UUID]int)}
}

func (r *memNotificationRepo) Create(ctx context.Context, notification *entity.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *notification
	r.notifications = append(r.notifications, &cp)
	return nil
}

func (r *memNotificationRepo) FindAll(ctx context.Context) ([]*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.Notification, 0, len(r.notifications))
	for _, notification := range r.notifications {
		cp := *notification
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memNotificationRepo) FindByShowtime(ctx context.Context, showtimeID uuid.UUID) ([]*entity.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Notification
	for _, notification := range r.notifications {
		if notification.ShowtimeID == showtimeID {
			cp := *notification
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, notification := range r.notifications {
		if notification.ID == id {
			notification.Read = true
			return nil
		}
	}
	return errors.New("notification not found")
}

func (r *memNotificationRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, notification := range r.notifications {
		if notification.ID == id {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return errors.New("notification not found")
}

func (r *memNotificationRepo) GetWatermark(ctx context.Context, showtimeID uuid.UUID) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.watermarks[showtimeID], nil
}

func (r *memNotificationRepo) SaveWatermark(ctx context.Context, showtimeID uuid.UUID, threshold int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watermarks[showtimeID] = threshold
	return nil
}

func newTestRepository() *repository.Repository {
	return &repository.Repository{
		Showtime:     newMemShowtimeRepo(),
		SeatState:    newMemSeatStateRepo(),
		Hold:         newMemHoldRepo(),
		Booking:      newMemBookingRepo(),
		Settings:     newMemSettingsRepo(),
		Notification: newMemNotificationRepo(),
	}
}

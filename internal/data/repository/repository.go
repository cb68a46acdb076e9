package repository

import (
	"movietix/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Showtime     ShowtimeRepository
	SeatState    SeatStateRepository
	Hold         HoldRepository
	Booking      BookingRepository
	Settings     SettingsRepository
	Notification NotificationRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Showtime:     NewShowtimeRepository(db, log),
		SeatState:    NewSeatStateRepository(db, log),
		Hold:         NewHoldRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Settings:     NewSettingsRepository(db, log),
		Notification: NewNotificationRepository(db, log),
	}
}

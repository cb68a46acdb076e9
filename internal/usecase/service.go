package usecase

import (
	"movietix/internal/data/repository"
	"movietix/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Admin        AdminService
	Pricing      PricingService
	Inventory    InventoryService
	Ledger       BookingLedgerService
	Notification NotificationService
	Showtime     ShowtimeService
	Reservation  ReservationService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	admin := NewAdminService(repo.Settings, log)
	pricing := NewPricingService(config.Booking.BookingFee)
	inventory := NewInventoryService(repo, log)
	ledger := NewBookingLedgerService(repo.Booking, log)
	notification := NewNotificationService(repo.Notification, log)
	showtime := NewShowtimeService(repo.Showtime, inventory, admin, log)
	reservation := NewReservationService(inventory, pricing, ledger, notification, admin, config.Booking.HoldTTL, log)

	return &Service{
		Admin:        admin,
		Pricing:      pricing,
		Inventory:    inventory,
		Ledger:       ledger,
		Notification: notification,
		Showtime:     showtime,
		Reservation:  reservation,
	}
}

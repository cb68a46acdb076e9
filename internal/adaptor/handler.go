package adaptor

import (
	"movietix/internal/usecase"
	"movietix/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Showtime *ShowtimeHandler
	Booking  *BookingHandler
	Admin    *AdminHandler
}

func NewHandler(service *usecase.Service, config *utils.Config, log *zap.Logger) *Handler {
	return &Handler{
		Showtime: NewShowtimeHandler(service.Showtime, service.Inventory, config.Booking.DemoSeed, log),
		Booking:  NewBookingHandler(service.Reservation, service.Ledger, log),
		Admin:    NewAdminHandler(service.Admin, service.Notification, log),
	}
}

package wire

import (
	"movietix/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAdmin(r chi.Router, adminHandler *adaptor.AdminHandler) {
	// ==================== ADMIN SETTINGS ====================
	r.Route("/api/admin/settings", func(r chi.Router) {
		// GET /api/admin/settings - Current layout, pricing and thresholds
		r.Get("/", adminHandler.GetSettings)

		// PUT /api/admin/settings - Replace settings as a whole
		r.Put("/", adminHandler.UpdateSettings)
	})

	// ==================== ADMIN NOTIFICATIONS ====================
	r.Route("/api/admin/notifications", func(r chi.Router) {
		// GET /api/admin/notifications - List threshold alerts
		r.Get("/", adminHandler.ListNotifications)

		// PATCH /api/admin/notifications/{id}/read - Mark alert as read
		r.Patch("/{id}/read", adminHandler.AcknowledgeNotification)

		// DELETE /api/admin/notifications/{id} - Remove an alert
		r.Delete("/{id}", adminHandler.DeleteNotification)
	})
}

package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"movietix/internal/data/entity"
	"movietix/internal/dto/request"
	"movietix/internal/dto/response"
	"movietix/internal/usecase"
	"movietix/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminHandler struct {
	admin        usecase.AdminService
	notification usecase.NotificationService
	log          *zap.Logger
}

func NewAdminHandler(admin usecase.AdminService, notification usecase.NotificationService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admin:        admin,
		notification: notification,
		log:          log.With(zap.String("handler", "admin")),
	}
}

// GetSettings handles GET /api/admin/settings
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings := h.admin.GetSettings()
	utils.ResponseSuccess(w, "success", response.SettingsToResponse(settings))
}

// UpdateSettings handles PUT /api/admin/settings
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	settings := entity.AdminSettings{
		Layout: entity.SeatLayout{
			Rows:        req.Layout.Rows,
			SeatsPerRow: req.Layout.SeatsPerRow,
		},
		Pricing: entity.SeatPricing{
			Standard: req.Pricing.Standard,
			Premium:  req.Pricing.Premium,
			VIP:      req.Pricing.VIP,
		},
		Thresholds: req.Thresholds,
	}

	if err := h.admin.SetSettings(r.Context(), settings); err != nil {
		h.handleServiceError(w, err, "update settings")
		return
	}

	utils.ResponseSuccess(w, "success", response.SettingsToResponse(h.admin.GetSettings()))
}

// ListNotifications handles GET /api/admin/notifications
func (h *AdminHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	var showtimeID *uuid.UUID
	if raw := r.URL.Query().Get("showtime_id"); raw != "" {
		id, err := utils.ParseUUID(raw)
		if err != nil {
			utils.ResponseBadRequest(w, "Invalid showtime_id", nil)
			return
		}
		showtimeID = &id
	}

	notifications, err := h.notification.List(r.Context(), showtimeID)
	if err != nil {
		h.handleServiceError(w, err, "list notifications")
		return
	}

	notificationResponses := make([]response.NotificationResponse, len(notifications))
	for i, notification := range notifications {
		notificationResponses[i] = response.NotificationToResponse(notification)
	}

	utils.ResponseSuccess(w, "success", notificationResponses)
}

// AcknowledgeNotification handles PATCH /api/admin/notifications/{id}/read
func (h *AdminHandler) AcknowledgeNotification(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid notification ID", nil)
		return
	}

	if err := h.notification.Acknowledge(r.Context(), id); err != nil {
		h.handleServiceError(w, err, "acknowledge notification")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

// DeleteNotification handles DELETE /api/admin/notifications/{id}
func (h *AdminHandler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ParseUUID(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid notification ID", nil)
		return
	}

	if err := h.notification.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err, "delete notification")
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}

func (h *AdminHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	var invalid *usecase.InvalidSettingsError

	switch {
	case errors.As(err, &invalid):
		h.log.Warn(operation+" failed - invalid settings",
			zap.Any("fields", invalid.Fields))
		utils.ResponseBadRequest(w, "Invalid settings", invalid.Fields)

	case errors.Is(err, usecase.ErrNotificationNotFound):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	default:
		h.log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

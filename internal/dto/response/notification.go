package response

import (
	"time"

	"movietix/internal/data/entity"
)

type NotificationResponse struct {
	ID         string    `json:"id"`
	ShowtimeID string    `json:"showtime_id"`
	Threshold  int       `json:"threshold"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

func NotificationToResponse(notification *entity.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         notification.ID.String(),
		ShowtimeID: notification.ShowtimeID.String(),
		Threshold:  notification.Threshold,
		Message:    notification.Message,
		Read:       notification.Read,
		CreatedAt:  notification.CreatedAt,
	}
}

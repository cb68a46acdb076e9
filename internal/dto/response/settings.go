package response

import (
	"movietix/internal/data/entity"
)

type SettingsResponse struct {
	SeatLayout struct {
		Rows        int `json:"rows"`
		SeatsPerRow int `json:"seats_per_row"`
	} `json:"seat_layout"`
	SeatPricing struct {
		Standard float64 `json:"standard"`
		Premium  float64 `json:"premium"`
		VIP      float64 `json:"vip"`
	} `json:"seat_pricing"`
	NotificationThresholds []int `json:"notification_thresholds"`
}

func SettingsToResponse(settings entity.AdminSettings) *SettingsResponse {
	resp := &SettingsResponse{NotificationThresholds: settings.Thresholds}
	resp.SeatLayout.Rows = settings.Layout.Rows
	resp.SeatLayout.SeatsPerRow = settings.Layout.SeatsPerRow
	resp.SeatPricing.Standard = settings.Pricing.Standard
	resp.SeatPricing.Premium = settings.Pricing.Premium
	resp.SeatPricing.VIP = settings.Pricing.VIP
	return resp
}

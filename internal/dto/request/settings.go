package request

type SeatLayoutRequest struct {
	Rows        int `json:"rows" validate:"required"`
	SeatsPerRow int `json:"seats_per_row" validate:"required"`
}

type SeatPricingRequest struct {
	Standard float64 `json:"standard" validate:"required"`
	Premium  float64 `json:"premium" validate:"required"`
	VIP      float64 `json:"vip" validate:"required"`
}

type UpdateSettingsRequest struct {
	Layout     SeatLayoutRequest  `json:"seat_layout" validate:"required"`
	Pricing    SeatPricingRequest `json:"seat_pricing" validate:"required"`
	Thresholds []int              `json:"notification_thresholds" validate:"required,min=1"`
}

package request

type HoldSeatsRequest struct {
	SeatIDs   []string `json:"seat_ids" validate:"required,min=1,dive,min=2,max=4"`
	SessionID string   `json:"session_id" validate:"required"`
}

type ConfirmPaymentRequest struct {
	HoldID     string `json:"hold_id" validate:"required,uuid4"`
	PaymentRef string `json:"payment_ref" validate:"required"`
}

type FailPaymentRequest struct {
	HoldID string `json:"hold_id" validate:"required,uuid4"`
	Reason string `json:"reason"`
}

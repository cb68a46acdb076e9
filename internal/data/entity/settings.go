package entity

import "time"

type SeatLayout struct {
	Rows        int `db:"seat_rows"`
	SeatsPerRow int `db:"seats_per_row"`
}

type SeatPricing struct {
	Standard float64 `db:"price_standard"`
	Premium  float64 `db:"price_premium"`
	VIP      float64 `db:"price_vip"`
}

func (p SeatPricing) RateFor(tier SeatTier) float64 {
	switch tier {
	case TierPremium:
		return p.Premium
	case TierVIP:
		return p.VIP
	default:
		return p.Standard
	}
}

// AdminSettings is a single record. Thresholds are occupancy
// percentages, kept sorted ascending and deduplicated.
type AdminSettings struct {
	Layout     SeatLayout
	Pricing    SeatPricing
	Thresholds []int
	UpdatedAt  time.Time `db:"updated_at"`
}

func DefaultAdminSettings() AdminSettings {
	return AdminSettings{
		Layout:     SeatLayout{Rows: 10, SeatsPerRow: 10},
		Pricing:    SeatPricing{Standard: 10, Premium: 15, VIP: 20},
		Thresholds: []int{50, 75, 90},
	}
}

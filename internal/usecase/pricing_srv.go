package usecase

import (
	"movietix/internal/data/entity"
)

// PricingService computes booking totals. It is pure: callers pass the
// rate table snapshotted at hold time, so later settings changes never
// affect a price already quoted.
type PricingService interface {
	PriceSeats(tiers []entity.SeatTier, rates entity.SeatPricing) float64
	BookingFee() float64
}

type pricingService struct {
	fee float64
}

func NewPricingService(bookingFee float64) PricingService {
	return &pricingService{fee: bookingFee}
}

// PriceSeats sums the tier rate of every seat and adds the fixed
// booking fee once, regardless of seat count.
func (s *pricingService) PriceSeats(tiers []entity.SeatTier, rates entity.SeatPricing) float64 {
	if len(tiers) == 0 {
		return 0
	}

	total := s.fee
	for _, tier := range tiers {
		total += rates.RateFor(tier)
	}

	return total
}

func (s *pricingService) BookingFee() float64 {
	return s.fee
}

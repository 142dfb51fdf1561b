package booking

import (
	"math"

	"eventspace/internal/domain"
)

// Quote computes the total price of a window against a space's price
// unit. Partial units always bill as a full unit: a 90-minute window
// is 2 hours, a 8-day window is 2 weeks on weekly pricing.
func Quote(space *domain.Space, w Window) float64 {
	d := w.End().Sub(w.Start())

	durationHours := int(math.Ceil(d.Hours()))
	durationDays := int(math.Ceil(d.Hours() / 24))

	switch space.PriceUnit {
	case domain.PricePerHour:
		return space.Price * float64(durationHours)
	case domain.PricePerDay:
		return space.Price * float64(durationDays)
	case domain.PricePerWeek:
		return space.Price * float64(ceilDiv(durationDays, 7))
	case domain.PricePerMonth:
		return space.Price * float64(ceilDiv(durationDays, 30))
	default:
		// Unknown unit bills flat, one unit.
		return space.Price
	}
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

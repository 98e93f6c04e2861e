package orders

import "orderdash/internal/model"

const (
	minBasePrice   = 5.0
	basePriceRange = 145.0
	priceVariance  = 0.1 // total spread, ±5%
)

// basePrice is seeded by the item number alone so it does not move between days.
func basePrice(itemNumber string) float64 {
	return seededStream(itemNumber).Float64()*basePriceRange + minBasePrice
}

// BasePrice returns the stable per-item price in [5, 150), rounded to cents.
func BasePrice(itemNumber string) float64 {
	return model.Round2(basePrice(itemNumber))
}

// unitPrice applies one draw of ±5% variance from rng to the base price.
func unitPrice(itemNumber string, rng *stream) float64 {
	variance := (rng.Float64() - 0.5) * priceVariance
	return model.Round2(basePrice(itemNumber) * (1 + variance))
}

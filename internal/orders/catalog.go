package orders

import "fmt"

const (
	storeCount    = 10
	supplierCount = 15
	itemCount     = 200
)

var (
	storeNames    = buildStoreNames()
	supplierNames = buildSupplierNames()
	itemNumbers   = buildItemNumbers()
	itemIndex     = buildItemIndex()
)

// Store A through Store J.
func buildStoreNames() []string {
	out := make([]string, storeCount)
	for i := range out {
		out[i] = fmt.Sprintf("Store %c", 'A'+i)
	}
	return out
}

// Supplier 1 through Supplier 15.
func buildSupplierNames() []string {
	out := make([]string, supplierCount)
	for i := range out {
		out[i] = fmt.Sprintf("Supplier %d", i+1)
	}
	return out
}

// ITEM-001 through ITEM-200. Position drives the frequency tier.
func buildItemNumbers() []string {
	out := make([]string, itemCount)
	for i := range out {
		out[i] = fmt.Sprintf("ITEM-%03d", i+1)
	}
	return out
}

func buildItemIndex() map[string]int {
	m := make(map[string]int, itemCount)
	for i, it := range itemNumbers {
		m[it] = i
	}
	return m
}

// StoreNames returns a copy of the store catalog.
func StoreNames() []string { return append([]string(nil), storeNames...) }

// SupplierNames returns a copy of the supplier catalog.
func SupplierNames() []string { return append([]string(nil), supplierNames...) }

// ItemNumbers returns a copy of the item catalog in tier order.
func ItemNumbers() []string { return append([]string(nil), itemNumbers...) }

// Tier classifies how often an item is ordered.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Frequency is an item's tier and its mean orders per week.
type Frequency struct {
	Tier          Tier
	OrdersPerWeek float64
}

// ItemFrequency derives the tier from the item's catalog position.
func ItemFrequency(itemNumber string) (Frequency, bool) {
	idx, ok := itemIndex[itemNumber]
	if !ok {
		return Frequency{}, false
	}
	return frequencyAt(idx), true
}

func frequencyAt(idx int) Frequency {
	pct := float64(idx) / itemCount
	switch {
	case pct < 0.2:
		return Frequency{Tier: TierHigh, OrdersPerWeek: 2.5}
	case pct < 0.7:
		return Frequency{Tier: TierMedium, OrdersPerWeek: 1.5}
	default:
		return Frequency{Tier: TierLow, OrdersPerWeek: 0.25}
	}
}

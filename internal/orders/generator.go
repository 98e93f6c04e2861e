// Package orders generates deterministic synthetic purchase orders.
package orders

import (
	"fmt"
	"sort"
	"time"

	"orderdash/internal/model"
)

const (
	taxRate        = 1.08
	maxQuantity    = 20
	ordersPerStore = 3
)

// DateLayout is the date-only format used in seeds, order numbers and query keys.
const DateLayout = "2006-01-02"

// Generate returns the orders for every day from start to end inclusive,
// newest day first. Days are taken in start's location. An inverted range
// yields no orders.
//
// Random draws for one (day, item) come from a single stream and their order
// is fixed: presence, store, supplier, quantity, price variance, order bucket.
// Filters are checked between draws, so filtering never shifts the values
// drawn for the events that survive it.
func Generate(start, end time.Time, filters *model.Filters) ([]model.Order, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("generate: zero date: %w", ErrInvalidArgument)
	}
	loc := start.Location()
	day := startOfDay(start, loc)
	last := startOfDay(end.In(loc), loc)
	if day.After(last) {
		return []model.Order{}, nil
	}

	match := newMatcher(filters)
	var (
		created []*model.Order
		byKey   = make(map[string]*model.Order)
	)
	for ; !day.After(last); day = day.AddDate(0, 0, 1) {
		date := day.Format(DateLayout)
		for idx, item := range itemNumbers {
			rng := seededStream(date + "-" + item)
			if rng.Float64() >= frequencyAt(idx).OrdersPerWeek/7 {
				continue
			}
			if !match.item(item) {
				continue
			}
			store := storeNames[rng.Intn(storeCount)]
			if !match.store(store) {
				continue
			}
			supplier := supplierNames[rng.Intn(supplierCount)]
			if !match.supplier(supplier) {
				continue
			}
			li := model.OrderLineItem{
				ItemNumber:   item,
				SupplierName: supplier,
				Quantity:     rng.Intn(maxQuantity) + 1,
				UnitPrice:    unitPrice(item, rng),
			}

			key := fmt.Sprintf("%s-%s-%d", date, store, rng.Intn(ordersPerStore))
			o, ok := byKey[key]
			if !ok {
				o = &model.Order{
					OrderNumber: fmt.Sprintf("ORD-%s-%04d", date, len(created)+1),
					StoreName:   store,
					OrderDate:   day,
				}
				byKey[key] = o
				created = append(created, o)
			}
			li.OrderNumber = o.OrderNumber
			o.LineItems = append(o.LineItems, li)
		}
	}

	out := make([]model.Order, 0, len(created))
	for _, o := range created {
		applyTotals(o)
		out = append(out, *o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OrderDate.After(out[j].OrderDate)
	})
	return out, nil
}

func applyTotals(o *model.Order) {
	var subtotal float64
	for _, li := range o.LineItems {
		subtotal += float64(li.Quantity) * li.UnitPrice
	}
	o.SubtotalAmount = model.Round2(subtotal)
	o.TotalAmount = model.Round2(o.SubtotalAmount * taxRate)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

type matcher struct {
	items, stores, suppliers map[string]struct{}
}

func newMatcher(f *model.Filters) matcher {
	if f == nil {
		return matcher{}
	}
	return matcher{
		items:     toSet(f.ItemNumbers),
		stores:    toSet(f.StoreNames),
		suppliers: toSet(f.SupplierNames),
	}
}

// toSet keeps nil for an absent criterion so it can be told apart from an empty one.
func toSet(vals []string) map[string]struct{} {
	if vals == nil {
		return nil
	}
	m := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		m[v] = struct{}{}
	}
	return m
}

func contains(set map[string]struct{}, v string) bool {
	if set == nil {
		return true
	}
	_, ok := set[v]
	return ok
}

func (m matcher) item(v string) bool     { return contains(m.items, v) }
func (m matcher) store(v string) bool    { return contains(m.stores, v) }
func (m matcher) supplier(v string) bool { return contains(m.suppliers, v) }

// Package rollup buckets line items by store, supplier and day window.
package rollup

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"orderdash/internal/model"
)

const dateLayout = "2006-01-02"

// Bucket is the aggregate for one store#supplier#window key.
type Bucket struct {
	Key          string  `json:"key"`
	StoreName    string  `json:"storeName"`
	SupplierName string  `json:"supplierName"`
	WindowStart  string  `json:"windowStart"`
	SumAmount    float64 `json:"sumAmount"`
	SumQty       int64   `json:"sumQty"`
	LineItems    int     `json:"lineItems"`
}

// BucketKey returns the composite key storeName#supplierName#windowStart.
func BucketKey(store, supplier string, windowStart time.Time) string {
	return fmt.Sprintf("%s#%s#%s", store, supplier, windowStart.Format(dateLayout))
}

// WindowStart returns the first day of the windowDays-wide window holding
// date, counted from anchor. windowDays <= 0 means 1.
func WindowStart(date, anchor time.Time, windowDays int) time.Time {
	if windowDays <= 0 {
		windowDays = 1
	}
	days := daysBetween(anchor, date)
	offset := days / windowDays
	if days < 0 && days%windowDays != 0 {
		offset--
	}
	return anchor.AddDate(0, 0, offset*windowDays)
}

func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

type acc struct {
	b      Bucket
	amount decimal.Decimal
}

// Aggregate sums line-item totals and quantities per bucket, with windows
// anchored at anchor. Buckets come back sorted by window, store, supplier.
func Aggregate(orders []model.Order, anchor time.Time, windowDays int) []Bucket {
	accs := make(map[string]*acc)
	for _, o := range orders {
		ws := WindowStart(o.OrderDate, anchor, windowDays)
		for _, li := range o.LineItems {
			key := BucketKey(o.StoreName, li.SupplierName, ws)
			a, ok := accs[key]
			if !ok {
				a = &acc{b: Bucket{
					Key:          key,
					StoreName:    o.StoreName,
					SupplierName: li.SupplierName,
					WindowStart:  ws.Format(dateLayout),
				}}
				accs[key] = a
			}
			a.amount = a.amount.Add(decimal.NewFromFloat(li.TotalPrice()))
			a.b.SumQty += int64(li.Quantity)
			a.b.LineItems++
		}
	}

	out := make([]Bucket, 0, len(accs))
	for _, a := range accs {
		a.b.SumAmount = a.amount.Round(2).InexactFloat64()
		out = append(out, a.b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WindowStart != out[j].WindowStart {
			return out[i].WindowStart < out[j].WindowStart
		}
		if out[i].StoreName != out[j].StoreName {
			return out[i].StoreName < out[j].StoreName
		}
		return out[i].SupplierName < out[j].SupplierName
	})
	return out
}

package orders

import (
	"github.com/shopspring/decimal"

	"orderdash/internal/model"
)

// Summarize computes the dashboard card figures. TotalAmount is the pre-tax
// sum of line-item totals; TotalWithTax sums each order's TotalAmount.
func Summarize(list []model.Order) model.Summary {
	s := model.Summary{TotalOrders: len(list)}
	amount := decimal.Zero
	taxed := decimal.Zero
	for _, o := range list {
		s.TotalLineItems += len(o.LineItems)
		taxed = taxed.Add(decimal.NewFromFloat(o.TotalAmount))
		for _, li := range o.LineItems {
			amount = amount.Add(decimal.NewFromFloat(li.TotalPrice()))
		}
	}
	s.TotalAmount = amount.Round(2).InexactFloat64()
	s.TotalWithTax = taxed.Round(2).InexactFloat64()
	return s
}

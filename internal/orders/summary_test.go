package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"orderdash/internal/model"
)

func TestSummarize(t *testing.T) {
	list := []model.Order{
		{
			OrderNumber: "ORD-1", SubtotalAmount: 30.3, TotalAmount: 32.72,
			LineItems: []model.OrderLineItem{
				{Quantity: 3, UnitPrice: 10.1},
			},
		},
		{
			OrderNumber: "ORD-2", SubtotalAmount: 0.3, TotalAmount: 0.32,
			LineItems: []model.OrderLineItem{
				{Quantity: 1, UnitPrice: 0.1},
				{Quantity: 1, UnitPrice: 0.2},
			},
		},
	}
	s := Summarize(list)
	assert.Equal(t, 2, s.TotalOrders)
	assert.Equal(t, 3, s.TotalLineItems)
	assert.Equal(t, 30.6, s.TotalAmount)
	assert.Equal(t, 33.04, s.TotalWithTax)
}

func TestSummarize_Empty(t *testing.T) {
	assert.Equal(t, model.Summary{}, Summarize(nil))
}

func TestSummarize_Generated(t *testing.T) {
	list, err := Generate(day(2024, 1, 1), day(2024, 1, 1), nil)
	assert.NoError(t, err)
	s := Summarize(list)
	assert.Equal(t, 21, s.TotalOrders)
	assert.Equal(t, 37, s.TotalLineItems)
	assert.Greater(t, s.TotalWithTax, s.TotalAmount)
}

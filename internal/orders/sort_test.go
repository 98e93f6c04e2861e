package orders

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdash/internal/model"
)

func numbers(list []model.Order) []string {
	out := make([]string, len(list))
	for i, o := range list {
		out[i] = o.OrderNumber
	}
	return out
}

func TestSort(t *testing.T) {
	line := func(qty int, price float64) model.OrderLineItem {
		return model.OrderLineItem{Quantity: qty, UnitPrice: price}
	}
	// TotalAmount deliberately disagrees with the line totals; the amount
	// column ranks by the line totals.
	base := []model.Order{
		{OrderNumber: "ORD-2024-01-02-0003", StoreName: "Store B", OrderDate: day(2024, 1, 2), TotalAmount: 500,
			LineItems: []model.OrderLineItem{line(1, 2.5), line(1, 2.5)}},
		{OrderNumber: "ORD-2024-01-01-0001", StoreName: "Store C", OrderDate: day(2024, 1, 1), TotalAmount: 1,
			LineItems: []model.OrderLineItem{line(2, 25)}},
		{OrderNumber: "ORD-2024-01-01-0002", StoreName: "Store A", OrderDate: day(2024, 1, 1), TotalAmount: 20,
			LineItems: []model.OrderLineItem{line(1, 10), line(1, 5), line(5, 1)}},
	}
	cases := []struct {
		field SortField
		desc  bool
		want  []string
	}{
		{SortOrderNumber, false, []string{"ORD-2024-01-01-0001", "ORD-2024-01-01-0002", "ORD-2024-01-02-0003"}},
		{SortStoreName, false, []string{"ORD-2024-01-01-0002", "ORD-2024-01-02-0003", "ORD-2024-01-01-0001"}},
		{SortOrderDate, false, []string{"ORD-2024-01-01-0001", "ORD-2024-01-01-0002", "ORD-2024-01-02-0003"}},
		{SortOrderDate, true, []string{"ORD-2024-01-02-0003", "ORD-2024-01-01-0001", "ORD-2024-01-01-0002"}},
		{SortTotalAmount, true, []string{"ORD-2024-01-01-0001", "ORD-2024-01-01-0002", "ORD-2024-01-02-0003"}},
		{SortTotalAmount, false, []string{"ORD-2024-01-02-0003", "ORD-2024-01-01-0002", "ORD-2024-01-01-0001"}},
		{SortLineItems, false, []string{"ORD-2024-01-01-0001", "ORD-2024-01-02-0003", "ORD-2024-01-01-0002"}},
	}
	for _, c := range cases {
		list := append([]model.Order(nil), base...)
		Sort(list, c.field, c.desc)
		assert.Equal(t, c.want, numbers(list), "%s desc=%v", c.field, c.desc)
	}
}

func TestParseSortField(t *testing.T) {
	f, err := ParseSortField("")
	require.NoError(t, err)
	assert.Equal(t, SortOrderNumber, f)

	f, err = ParseSortField("totalAmount")
	require.NoError(t, err)
	assert.Equal(t, SortTotalAmount, f)

	_, err = ParseSortField("price")
	assert.True(t, errors.Is(err, ErrInvalidArgument))
}

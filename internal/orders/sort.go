package orders

import (
	"fmt"
	"sort"

	"orderdash/internal/model"
)

// SortField names an orders table column.
type SortField string

const (
	SortOrderNumber SortField = "orderNumber"
	SortStoreName   SortField = "storeName"
	SortOrderDate   SortField = "orderDate"
	SortTotalAmount SortField = "totalAmount" // pre-tax line total
	SortLineItems   SortField = "lineItems"
)

// ParseSortField accepts a column name; empty selects SortOrderNumber.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case "":
		return SortOrderNumber, nil
	case SortOrderNumber, SortStoreName, SortOrderDate, SortTotalAmount, SortLineItems:
		return f, nil
	}
	return "", fmt.Errorf("sort field %q: %w", s, ErrInvalidArgument)
}

// Sort orders list in place by field. Equal rows keep their relative order.
func Sort(list []model.Order, field SortField, desc bool) {
	less := lessFunc(list, field)
	sort.SliceStable(list, func(i, j int) bool {
		if desc {
			return less(j, i)
		}
		return less(i, j)
	})
}

func lessFunc(list []model.Order, field SortField) func(i, j int) bool {
	switch field {
	case SortStoreName:
		return func(i, j int) bool { return list[i].StoreName < list[j].StoreName }
	case SortOrderDate:
		return func(i, j int) bool { return list[i].OrderDate.Before(list[j].OrderDate) }
	case SortTotalAmount:
		return func(i, j int) bool { return lineTotal(list[i]) < lineTotal(list[j]) }
	case SortLineItems:
		return func(i, j int) bool { return len(list[i].LineItems) < len(list[j].LineItems) }
	default:
		return func(i, j int) bool { return list[i].OrderNumber < list[j].OrderNumber }
	}
}

// lineTotal is the pre-tax sum of line totals shown in the amount column.
func lineTotal(o model.Order) float64 {
	var sum float64
	for _, li := range o.LineItems {
		sum += li.TotalPrice()
	}
	return sum
}

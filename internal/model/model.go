package model

import (
	"math"
	"time"
)

// OrderLineItem is a single item row inside an Order.
type OrderLineItem struct {
	OrderNumber  string  `json:"orderNumber"`
	ItemNumber   string  `json:"itemNumber"`
	SupplierName string  `json:"supplierName"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
}

// TotalPrice is quantity × unitPrice rounded to cents. It is never stored.
func (li OrderLineItem) TotalPrice() float64 {
	return Round2(float64(li.Quantity) * li.UnitPrice)
}

// Order groups line items placed by one store on one day.
type Order struct {
	OrderNumber    string          `json:"orderNumber"`
	StoreName      string          `json:"storeName"`
	OrderDate      time.Time       `json:"orderDate"`
	SubtotalAmount float64         `json:"subtotalAmount"`
	TotalAmount    float64         `json:"totalAmount"`
	LineItems      []OrderLineItem `json:"lineItems"`
}

// Filters restricts generated data. A nil slice means "no restriction";
// a non-nil empty slice matches nothing.
type Filters struct {
	StoreNames    []string `json:"storeNames,omitempty"`
	SupplierNames []string `json:"supplierNames,omitempty"`
	ItemNumbers   []string `json:"itemNumbers,omitempty"`
}

// Empty reports whether no criterion is set.
func (f *Filters) Empty() bool {
	return f == nil || (f.StoreNames == nil && f.SupplierNames == nil && f.ItemNumbers == nil)
}

// Summary holds the dashboard card figures for a set of orders.
type Summary struct {
	TotalOrders    int     `json:"totalOrders"`
	TotalLineItems int     `json:"totalLineItems"`
	TotalAmount    float64 `json:"totalAmount"`
	TotalWithTax   float64 `json:"totalWithTax"`
}

// Round2 rounds half up to two decimal places.
func Round2(v float64) float64 {
	return roundHalfUp(v*100) / 100
}

func roundHalfUp(v float64) float64 {
	r := math.Floor(v)
	if v-r >= 0.5 {
		r++
	}
	return r
}

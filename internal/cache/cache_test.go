package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdash/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleOrders(n string) []model.Order {
	return []model.Order{{
		OrderNumber:    n,
		StoreName:      "Store A",
		OrderDate:      day(2024, 1, 1),
		SubtotalAmount: 10,
		TotalAmount:    10.8,
		LineItems: []model.OrderLineItem{
			{OrderNumber: n, ItemNumber: "ITEM-001", SupplierName: "Supplier 1", Quantity: 2, UnitPrice: 5},
		},
	}}
}

func TestQueryKey(t *testing.T) {
	start, end := day(2024, 1, 1), day(2024, 1, 7)
	assert.Equal(t, "orders#2024-01-01#2024-01-07", QueryKey(start, end, nil))
	assert.Equal(t, "orders#2024-01-01#2024-01-07", QueryKey(start, end, &model.Filters{}))

	k1 := QueryKey(start, end, &model.Filters{StoreNames: []string{"Store B", "Store A"}})
	k2 := QueryKey(start, end, &model.Filters{StoreNames: []string{"Store A", "Store B"}})
	assert.Equal(t, k1, k2)
	assert.Equal(t, "orders#2024-01-01#2024-01-07#s=Store A,Store B", k1)

	empty := QueryKey(start, end, &model.Filters{ItemNumbers: []string{}})
	assert.Equal(t, "orders#2024-01-01#2024-01-07#i=", empty)
	assert.NotEqual(t, QueryKey(start, end, nil), empty)
}

func TestInMemoryStore_PutGet(t *testing.T) {
	s := NewInMemoryStore()
	_, ok := s.Get("k")
	assert.False(t, ok)

	require.NoError(t, s.Put("k", sampleOrders("ORD-1")))
	got, ok := s.Get("k")
	require.True(t, ok)
	assert.Equal(t, sampleOrders("ORD-1"), got)
	assert.Equal(t, 1, s.Len())
}

func TestInMemoryStore_LoadAllReplaces(t *testing.T) {
	s := NewInMemoryStore()
	require.NoError(t, s.Put("old", sampleOrders("ORD-0")))
	require.NoError(t, s.LoadAll(map[string][]model.Order{
		"a": sampleOrders("ORD-1"),
		"b": sampleOrders("ORD-2"),
	}))
	_, ok := s.Get("old")
	assert.False(t, ok)

	seen := map[string]bool{}
	require.NoError(t, s.Range(func(key string, _ []model.Order) error {
		seen[key] = true
		return nil
	}))
	assert.Equal(t, map[string]bool{"a": true, "b": true}, seen)
}

func TestInMemoryStore_ConcurrentPuts(t *testing.T) {
	s := NewInMemoryStore()
	var wg sync.WaitGroup
	keys := []string{"orders#a", "orders#b", "orders#c", "orders#d"}
	for _, k := range keys {
		k := k
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				if err := s.Put(k, sampleOrders(k)); err != nil {
					t.Errorf("put: %v", err)
					return
				}
				s.Get(k)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, len(keys), s.Len())
}

func TestQueryKey_EndReadInStartLocation(t *testing.T) {
	start := day(2024, 1, 1)
	plus2 := time.FixedZone("UTC+2", 2*3600)
	// 01:00 on the 2nd at UTC+2 is still the 1st in UTC.
	assert.Equal(t, "orders#2024-01-01#2024-01-01", QueryKey(start, time.Date(2024, 1, 2, 1, 0, 0, 0, plus2), nil))
	assert.Equal(t, "orders#2024-01-01#2024-01-02", QueryKey(start, day(2024, 1, 2), nil))
}

package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdash/internal/cache"
	"orderdash/internal/metrics"
	"orderdash/internal/model"
	"orderdash/internal/orders"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type countingGenerator struct{ calls int }

func (c *countingGenerator) generate(start, end time.Time, f *model.Filters) ([]model.Order, error) {
	c.calls++
	return orders.Generate(start, end, f)
}

func newService() (*Service, *countingGenerator, *metrics.Registry) {
	m := metrics.NewRegistry()
	gen := &countingGenerator{}
	svc := NewService(cache.NewInMemoryStore(), m).WithGenerator(gen.generate)
	return svc, gen, m
}

func TestOrders_MemoizesPerKey(t *testing.T) {
	svc, gen, m := newService()
	ctx := context.Background()

	a, err := svc.Orders(ctx, day(2024, 1, 1), day(2024, 1, 3), nil)
	require.NoError(t, err)
	b, err := svc.Orders(ctx, day(2024, 1, 1), day(2024, 1, 3), nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, 1, gen.calls)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHits))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses))
	assert.Equal(t, float64(len(a)), testutil.ToFloat64(m.OrdersGenerated))
}

func TestOrders_FiltersDoNotReuseUnfilteredEntry(t *testing.T) {
	svc, gen, _ := newService()
	ctx := context.Background()

	all, err := svc.Orders(ctx, day(2024, 1, 1), day(2024, 1, 7), nil)
	require.NoError(t, err)
	onlyA, err := svc.Orders(ctx, day(2024, 1, 1), day(2024, 1, 7), &model.Filters{StoreNames: []string{"Store A"}})
	require.NoError(t, err)

	assert.Equal(t, 2, gen.calls)
	assert.Less(t, len(onlyA), len(all))
	for _, o := range onlyA {
		assert.Equal(t, "Store A", o.StoreName)
	}
}

func TestOrders_ResultIsCallerOwned(t *testing.T) {
	svc, _, _ := newService()
	ctx := context.Background()

	a, err := svc.Orders(ctx, day(2024, 1, 1), day(2024, 1, 2), nil)
	require.NoError(t, err)
	require.NotEmpty(t, a)
	want := a[0].OrderNumber
	orders.Sort(a, orders.SortTotalAmount, false)
	a[0] = model.Order{}

	b, err := svc.Orders(ctx, day(2024, 1, 1), day(2024, 1, 2), nil)
	require.NoError(t, err)
	assert.Equal(t, want, b[0].OrderNumber)
}

func TestOrders_InvalidArgumentCounted(t *testing.T) {
	svc, _, m := newService()
	_, err := svc.Orders(context.Background(), time.Time{}, day(2024, 1, 1), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, orders.ErrInvalidArgument))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvalidRequests))
}

func TestOrders_CanceledContext(t *testing.T) {
	svc, gen, _ := newService()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Orders(ctx, day(2024, 1, 1), day(2024, 1, 1), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, gen.calls)
}

func TestSummary(t *testing.T) {
	svc, _, _ := newService()
	s, err := svc.Summary(context.Background(), day(2024, 1, 1), day(2024, 1, 1), nil)
	require.NoError(t, err)
	assert.Equal(t, 21, s.TotalOrders)
	assert.Equal(t, 37, s.TotalLineItems)
}

func TestOrders_EndInOtherZoneGetsOwnEntry(t *testing.T) {
	svc, gen, _ := newService()
	ctx := context.Background()
	plus2 := time.FixedZone("UTC+2", 2*3600)

	oneDay, err := svc.Orders(ctx, day(2024, 1, 1), time.Date(2024, 1, 2, 1, 0, 0, 0, plus2), nil)
	require.NoError(t, err)
	twoDays, err := svc.Orders(ctx, day(2024, 1, 1), day(2024, 1, 2), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, gen.calls)
	assert.Len(t, oneDay, 21)
	want, err := orders.Generate(day(2024, 1, 1), day(2024, 1, 2), nil)
	require.NoError(t, err)
	assert.Len(t, twoDays, len(want))
	assert.Greater(t, len(twoDays), len(oneDay))
}

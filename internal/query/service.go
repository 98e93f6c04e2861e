// Package query is the memoizing layer between callers and the generator.
package query

import (
	"context"
	"errors"
	"time"

	"orderdash/internal/cache"
	"orderdash/internal/metrics"
	"orderdash/internal/model"
	"orderdash/internal/obs"
	"orderdash/internal/orders"
)

// GenerateFunc produces orders for a range. orders.Generate in production.
type GenerateFunc func(start, end time.Time, f *model.Filters) ([]model.Order, error)

// Service serves order queries from the cache, generating on a miss.
type Service struct {
	store    cache.Store
	metrics  *metrics.Registry
	generate GenerateFunc
}

func NewService(st cache.Store, m *metrics.Registry) *Service {
	return &Service{store: st, metrics: m, generate: orders.Generate}
}

// WithGenerator swaps the generator; used by tests to count calls.
func (s *Service) WithGenerator(fn GenerateFunc) *Service {
	s.generate = fn
	return s
}

// Orders returns a copy of the (possibly cached) orders for the range, so
// callers may sort or trim the result freely.
func (s *Service) Orders(ctx context.Context, start, end time.Time, f *model.Filters) ([]model.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := cache.QueryKey(start, end, f)
	if cached, ok := s.store.Get(key); ok {
		s.metrics.CacheHits.Inc()
		return cloneOrders(cached), nil
	}
	s.metrics.CacheMisses.Inc()

	t0 := time.Now()
	list, err := s.generate(start, end, f)
	if err != nil {
		if errors.Is(err, orders.ErrInvalidArgument) {
			s.metrics.InvalidRequests.Inc()
		}
		return nil, err
	}
	s.metrics.Generations.Inc()
	s.metrics.GenerateLatencySec.Observe(time.Since(t0).Seconds())
	s.metrics.OrdersGenerated.Add(float64(len(list)))
	lineItems := 0
	for _, o := range list {
		lineItems += len(o.LineItems)
	}
	s.metrics.LineItemsGenerated.Add(float64(lineItems))
	obs.Logger.Debug("orders_generated", "key", key, "orders", len(list), "line_items", lineItems,
		"latency_ms", float64(time.Since(t0).Microseconds())/1000.0)

	if err := s.store.Put(key, list); err != nil {
		// A failed write only costs a regeneration next time.
		obs.Logger.Warn("cache_put_failed", "key", key, "error", err)
	} else {
		s.metrics.CacheEntries.Set(float64(s.store.Len()))
	}
	return cloneOrders(list), nil
}

// Summary returns the card figures for the same query Orders would answer.
func (s *Service) Summary(ctx context.Context, start, end time.Time, f *model.Filters) (model.Summary, error) {
	list, err := s.Orders(ctx, start, end, f)
	if err != nil {
		return model.Summary{}, err
	}
	return orders.Summarize(list), nil
}

// Store exposes the backing cache for snapshotting.
func (s *Service) Store() cache.Store { return s.store }

// The order slice is copied; line items are shared because nothing mutates them.
func cloneOrders(in []model.Order) []model.Order {
	if in == nil {
		return nil
	}
	return append(make([]model.Order, 0, len(in)), in...)
}

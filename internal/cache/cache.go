// Package cache memoizes generated order sets by query key.
package cache

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"orderdash/internal/model"
)

const dateLayout = "2006-01-02"

// QueryKey identifies one generator call: orders#<start>#<end>, followed by
// the sorted filter sets when any filter is present. A filtered result never
// shares a key with the unfiltered superset. Both dates are read in start's
// location, as the generator reads them.
func QueryKey(start, end time.Time, f *model.Filters) string {
	var b strings.Builder
	fmt.Fprintf(&b, "orders#%s#%s", start.Format(dateLayout), end.In(start.Location()).Format(dateLayout))
	if f.Empty() {
		return b.String()
	}
	writeSet(&b, "s", f.StoreNames)
	writeSet(&b, "p", f.SupplierNames)
	writeSet(&b, "i", f.ItemNumbers)
	return b.String()
}

func writeSet(b *strings.Builder, tag string, vals []string) {
	if vals == nil {
		return
	}
	sorted := append([]string(nil), vals...)
	sort.Strings(sorted)
	fmt.Fprintf(b, "#%s=%s", tag, strings.Join(sorted, ","))
}

// Store abstracts the cache backend.
type Store interface {
	Get(key string) ([]model.Order, bool)
	Put(key string, orders []model.Order) error
	Range(fn func(key string, orders []model.Order) error) error
	LoadAll(all map[string][]model.Order) error
	Len() int
}

// InMemoryStore is a thread-safe map store.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string][]model.Order
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: make(map[string][]model.Order)}
}

// LoadAll replaces the store contents, used when restoring a snapshot.
func (s *InMemoryStore) LoadAll(all map[string][]model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string][]model.Order, len(all))
	for k, v := range all {
		s.data[k] = v
	}
	return nil
}

func (s *InMemoryStore) Put(key string, orders []model.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = orders
	return nil
}

// Get returns the cached slice itself; callers must copy before mutating it.
func (s *InMemoryStore) Get(key string) ([]model.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *InMemoryStore) Range(fn func(key string, orders []model.Order) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for k, v := range s.data {
		if err := fn(k, v); err != nil {
			return fmt.Errorf("range callback failed: %w", err)
		}
	}
	return nil
}

func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

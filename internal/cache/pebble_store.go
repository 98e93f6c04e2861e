package cache

import (
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"

	"orderdash/internal/model"
)

// PebbleStore persists cached order sets in PebbleDB, one JSON value per key.
type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(dir string) (*PebbleStore, error) {
	opts := &pebble.Options{
		// Values are whole order sets; a larger memtable keeps month-long
		// ranges out of L0 for longer.
		MemTableSize:          64 << 20,
		L0CompactionThreshold: 4,
		L0StopWritesThreshold: 8,
	}
	d, err := pebble.Open(filepath.Clean(dir), opts)
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleStore{db: d}, nil
}

func (p *PebbleStore) Close() error { return p.db.Close() }

func (p *PebbleStore) Put(key string, orders []model.Order) error {
	b, err := encodeOrders(orders)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	// The cache is rebuildable, so skip the fsync.
	if err := p.db.Set([]byte(key), b, pebble.NoSync); err != nil {
		return fmt.Errorf("pebble set %s: %w", key, err)
	}
	return nil
}

func (p *PebbleStore) Get(key string) ([]model.Order, bool) {
	v, closer, err := p.db.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	defer closer.Close()
	out, err := decodeOrders(v)
	if err != nil {
		return nil, false
	}
	return out, true
}

func (p *PebbleStore) Range(fn func(key string, orders []model.Order) error) error {
	it, err := p.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("pebble iter: %w", err)
	}
	defer it.Close()
	for it.First(); it.Valid(); it.Next() {
		k := string(it.Key())
		v, err := decodeOrders(it.Value())
		if err != nil {
			return fmt.Errorf("decode %s: %w", k, err)
		}
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return it.Error()
}

// LoadAll replaces every key in one batch.
func (p *PebbleStore) LoadAll(all map[string][]model.Order) error {
	var existing [][]byte
	it, err := p.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("pebble iter: %w", err)
	}
	for it.First(); it.Valid(); it.Next() {
		existing = append(existing, append([]byte(nil), it.Key()...))
	}
	if err := it.Close(); err != nil {
		return fmt.Errorf("pebble iter close: %w", err)
	}

	wb := p.db.NewBatch()
	defer wb.Close()
	for _, k := range existing {
		if err := wb.Delete(k, nil); err != nil {
			return err
		}
	}
	for k, orders := range all {
		b, err := encodeOrders(orders)
		if err != nil {
			return fmt.Errorf("encode %s: %w", k, err)
		}
		if err := wb.Set([]byte(k), b, nil); err != nil {
			return err
		}
	}
	return wb.Commit(pebble.NoSync)
}

func (p *PebbleStore) Len() int {
	it, err := p.db.NewIter(nil)
	if err != nil {
		return 0
	}
	defer it.Close()
	n := 0
	for it.First(); it.Valid(); it.Next() {
		n++
	}
	return n
}


package cache

import (
	"fmt"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"

	"orderdash/internal/model"
)

// BadgerStore persists cached order sets in BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(filepath.Clean(dir)).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger open: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) Close() error { return b.db.Close() }

func (b *BadgerStore) Put(key string, orders []model.Order) error {
	val, err := encodeOrders(orders)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), val)
	})
}

func (b *BadgerStore) Get(key string) ([]model.Order, bool) {
	var out []model.Order
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		v, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		out, err = decodeOrders(v)
		return err
	})
	if err != nil {
		return nil, false
	}
	return out, true
}

func (b *BadgerStore) Range(fn func(key string, orders []model.Order) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			k := string(item.KeyCopy(nil))
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			orders, err := decodeOrders(v)
			if err != nil {
				return fmt.Errorf("decode %s: %w", k, err)
			}
			if err := fn(k, orders); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadAll replaces every key in a single transaction.
func (b *BadgerStore) LoadAll(all map[string][]model.Order) error {
	return b.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false})
		var existing [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			existing = append(existing, it.Item().KeyCopy(nil))
		}
		it.Close()
		for _, k := range existing {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		for k, orders := range all {
			val, err := encodeOrders(orders)
			if err != nil {
				return fmt.Errorf("encode %s: %w", k, err)
			}
			if err := txn.Set([]byte(k), val); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BadgerStore) Len() int {
	n := 0
	_ = b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false})
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n
}


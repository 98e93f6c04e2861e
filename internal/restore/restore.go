// Package restore warm-starts a cache from the latest snapshot.
package restore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"orderdash/internal/cache"
	"orderdash/internal/manifest"
	"orderdash/internal/snapshot"
)

type Restorer struct {
	store     cache.Store
	snapshots snapshot.Loader
	manifests manifest.Reader
}

func NewRestorer(st cache.Store, snaps snapshot.Loader, mr manifest.Reader) *Restorer {
	return &Restorer{store: st, snapshots: snaps, manifests: mr}
}

type Result struct {
	SnapshotID string
	Entries    int
	Age        time.Duration
}

// RestoreLatest loads the snapshot named by the latest manifest, replacing
// the store contents.
func (r *Restorer) RestoreLatest(ctx context.Context) (Result, error) {
	m, err := r.manifests.ReadLatest(ctx)
	if err != nil {
		return Result{}, err
	}
	if m.SnapshotID == "" {
		return Result{}, fmt.Errorf("manifest has no snapshot id")
	}
	dump, err := r.snapshots.ReadSnapshot(m.SnapshotID)
	if err != nil {
		return Result{}, err
	}
	if err := r.store.LoadAll(dump); err != nil {
		return Result{}, fmt.Errorf("load snapshot %s: %w", m.SnapshotID, err)
	}
	return Result{
		SnapshotID: m.SnapshotID,
		Entries:    len(dump),
		Age:        time.Since(time.Unix(m.CreatedAtEpochSecond, 0)),
	}, nil
}

// KafkaReader reads the latest manifest record from a compacted Kafka topic.
type KafkaReader struct {
	brokers []string
	topic   string
	key     []byte
	timeout time.Duration
}

func NewKafkaReader(brokers []string, topic string, key string) *KafkaReader {
	return &KafkaReader{brokers: brokers, topic: topic, key: []byte(key), timeout: 10 * time.Second}
}

// ReadLatest scans the partition from the start and keeps the last record
// for the key. Compaction keeps the topic small enough for this.
func (k *KafkaReader) ReadLatest(ctx context.Context) (manifest.Manifest, error) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   k.brokers,
		Topic:     k.topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer r.Close()

	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()

	var last manifest.Manifest
	for {
		m, err := r.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			return manifest.Manifest{}, fmt.Errorf("read kafka: %w", err)
		}
		if string(m.Key) != string(k.key) {
			continue
		}
		var man manifest.Manifest
		if err := json.Unmarshal(m.Value, &man); err != nil {
			return manifest.Manifest{}, fmt.Errorf("unmarshal kafka manifest: %w", err)
		}
		last = man
	}
	if last.SnapshotID == "" {
		return manifest.Manifest{}, fmt.Errorf("no manifest found for key %s", k.key)
	}
	return last, nil
}

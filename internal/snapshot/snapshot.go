// Package snapshot dumps a cache store to disk and reads it back.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"orderdash/internal/cache"
	"orderdash/internal/model"
)

const fileName = "cache.json"

type Snapshotter interface {
	WriteSnapshot(snapshotID string, st cache.Store) (int, error)
}

type Loader interface {
	ReadSnapshot(snapshotID string) (map[string][]model.Order, error)
}

type FilesystemSnapshotter struct {
	baseDir string
}

func NewFilesystemSnapshotter(baseDir string) *FilesystemSnapshotter {
	return &FilesystemSnapshotter{baseDir: baseDir}
}

// WriteSnapshot writes every cache entry to <baseDir>/<id>/cache.json and
// returns the entry count. The file is written under a temporary name first.
func (f *FilesystemSnapshotter) WriteSnapshot(snapshotID string, st cache.Store) (int, error) {
	dir := filepath.Join(f.baseDir, snapshotID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}
	dump := make(map[string][]model.Order)
	if err := st.Range(func(key string, orders []model.Order) error {
		dump[key] = orders
		return nil
	}); err != nil {
		return 0, err
	}

	tmp := filepath.Join(dir, fileName+".tmp")
	out, err := os.Create(tmp)
	if err != nil {
		return 0, fmt.Errorf("create: %w", err)
	}
	enc := json.NewEncoder(out)
	if err := enc.Encode(dump); err != nil {
		out.Close()
		return 0, fmt.Errorf("encode: %w", err)
	}
	if err := out.Close(); err != nil {
		return 0, fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, fileName)); err != nil {
		return 0, fmt.Errorf("rename: %w", err)
	}
	return len(dump), nil
}

func (f *FilesystemSnapshotter) ReadSnapshot(snapshotID string) (map[string][]model.Order, error) {
	data, err := os.ReadFile(filepath.Join(f.baseDir, snapshotID, fileName))
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var dump map[string][]model.Order
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return dump, nil
}

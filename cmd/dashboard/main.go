package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"orderdash/internal/cache"
	"orderdash/internal/config"
	"orderdash/internal/export"
	"orderdash/internal/httpapi"
	"orderdash/internal/manifest"
	"orderdash/internal/metrics"
	"orderdash/internal/obs"
	"orderdash/internal/query"
	"orderdash/internal/restore"
	"orderdash/internal/snapshot"
)

const manifestKey = manifest.DefaultKey

func main() {
	path := flag.String("config", os.Getenv("CONFIG_PATH"), "optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	obs.InitLogger(cfg.LogLevel)

	if err := run(cfg); err != nil {
		obs.Logger.Error("dashboard_failed", "error", err.Error())
		os.Exit(1)
	}
}

func openStore(cfg config.Config) (cache.Store, func(), error) {
	switch cfg.CacheBackend {
	case "pebble":
		ps, err := cache.NewPebbleStore(cfg.CacheDir)
		if err != nil {
			return nil, nil, fmt.Errorf("init pebble: %w", err)
		}
		return ps, func() { _ = ps.Close() }, nil
	case "badger":
		bs, err := cache.NewBadgerStore(cfg.CacheDir)
		if err != nil {
			return nil, nil, fmt.Errorf("init badger: %w", err)
		}
		return bs, func() { _ = bs.Close() }, nil
	default:
		return cache.NewInMemoryStore(), func() {}, nil
	}
}

func kafkaEnabled(cfg config.Config) bool {
	return cfg.KafkaBootstrap != "" && (cfg.ManifestSink == "kafka" || cfg.ManifestSink == "both")
}

func manifestPublisher(cfg config.Config) manifest.Publisher {
	fs := manifest.NewFilesystemManifest(cfg.SnapshotDir)
	if !kafkaEnabled(cfg) {
		return fs
	}
	k := manifest.NewKafkaManifest(cfg.KafkaBootstrap, cfg.TopicSnapshots, manifestKey)
	if cfg.ManifestSink == "kafka" {
		return k
	}
	return manifest.NewMultiPublisher(fs, k)
}

func manifestReader(cfg config.Config) manifest.Reader {
	if kafkaEnabled(cfg) && cfg.ManifestSink == "kafka" {
		return restore.NewKafkaReader(export.SplitBrokers(cfg.KafkaBootstrap), cfg.TopicSnapshots, manifestKey)
	}
	return manifest.NewFilesystemManifest(cfg.SnapshotDir)
}

func run(cfg config.Config) error {
	obs.Logger.Info("dashboard_starting",
		"addr", cfg.HTTPAddr,
		"cache_backend", cfg.CacheBackend,
		"manifest_sink", cfg.ManifestSink,
	)

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	mreg := metrics.NewRegistry()
	snaps := snapshot.NewFilesystemSnapshotter(cfg.SnapshotDir)

	if cfg.RestoreOnStart {
		res, err := restore.NewRestorer(st, snaps, manifestReader(cfg)).RestoreLatest(context.Background())
		if err != nil {
			obs.Logger.Warn("cache_restore_skipped", "error", err.Error())
		} else {
			mreg.CacheRestored.Add(float64(res.Entries))
			mreg.LastSnapshotAgeSec.Set(res.Age.Seconds())
			obs.Logger.Info("cache_restored",
				"snapshot_id", res.SnapshotID,
				"entries", res.Entries,
				"age_sec", res.Age.Seconds(),
			)
		}
	}
	mreg.CacheEntries.Set(float64(st.Len()))

	app := httpapi.NewApp(query.NewService(st, mreg), mreg, time.Local)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		obs.Logger.Info("dashboard_stopping", "signal", s.String())
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		obs.Logger.Warn("http_shutdown", "error", err.Error())
	}

	if cfg.SnapshotOnShutdown {
		return snapshotAndPublish(ctx, st, snaps, manifestPublisher(cfg))
	}
	return nil
}

func snapshotAndPublish(ctx context.Context, st cache.Store, snaps snapshot.Snapshotter, pub manifest.Publisher) error {
	id := time.Now().UTC().Format("20060102T150405Z") + "-" + uuid.NewString()[:8]
	n, err := snaps.WriteSnapshot(id, st)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	if err := pub.PublishLatest(ctx, id, n); err != nil {
		return fmt.Errorf("publish manifest: %w", err)
	}
	obs.Logger.Info("snapshot_written", "snapshot_id", id, "entries", n)
	return nil
}

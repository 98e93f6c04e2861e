// Package config provides runtime configuration for the dashboard server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds configuration knobs for the HTTP server, cache and snapshots.
type Config struct {
	HTTPAddr           string        `yaml:"http_addr"`
	LogLevel           string        `yaml:"log_level"`
	CacheBackend       string        `yaml:"cache_backend"` // memory|pebble|badger
	CacheDir           string        `yaml:"cache_dir"`
	SnapshotDir        string        `yaml:"snapshot_dir"`
	SnapshotOnShutdown bool          `yaml:"snapshot_on_shutdown"`
	RestoreOnStart     bool          `yaml:"restore_on_start"`
	KafkaBootstrap     string        `yaml:"kafka_bootstrap"`
	ManifestSink       string        `yaml:"manifest_sink"` // file|kafka|both
	TopicSnapshots     string        `yaml:"topic_snapshots"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		HTTPAddr:           ":8080",
		LogLevel:           "info",
		CacheBackend:       "memory",
		CacheDir:           "./data/cache",
		SnapshotDir:        "./snapshots",
		SnapshotOnShutdown: true,
		RestoreOnStart:     true,
		ManifestSink:       "file",
		TopicSnapshots:     "orderdash.snapshots",
		ShutdownTimeout:    10 * time.Second,
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func boolenv(key string, def bool) bool {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func durenvs(key string, def time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return time.Duration(n) * time.Second
}

// Load starts from Defaults, applies the YAML file at path when path is
// non-empty, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.CacheBackend = strings.ToLower(getenv("CACHE_BACKEND", cfg.CacheBackend))
	cfg.CacheDir = getenv("CACHE_DIR", cfg.CacheDir)
	cfg.SnapshotDir = getenv("SNAPSHOT_DIR", cfg.SnapshotDir)
	cfg.SnapshotOnShutdown = boolenv("SNAPSHOT_ON_SHUTDOWN", cfg.SnapshotOnShutdown)
	cfg.RestoreOnStart = boolenv("RESTORE_ON_START", cfg.RestoreOnStart)
	cfg.KafkaBootstrap = getenv("KAFKA_BOOTSTRAP", cfg.KafkaBootstrap)
	cfg.ManifestSink = strings.ToLower(getenv("MANIFEST_SINK", cfg.ManifestSink))
	cfg.TopicSnapshots = getenv("TOPIC_SNAPSHOTS", cfg.TopicSnapshots)
	cfg.ShutdownTimeout = durenvs("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects unknown backend and sink names, and Kafka sinks without
// a bootstrap address.
func (c Config) Validate() error {
	switch c.CacheBackend {
	case "memory", "pebble", "badger":
	default:
		return fmt.Errorf("cache_backend %q: want memory, pebble or badger", c.CacheBackend)
	}
	switch c.ManifestSink {
	case "file", "kafka", "both":
	default:
		return fmt.Errorf("manifest_sink %q: want file, kafka or both", c.ManifestSink)
	}
	if c.ManifestSink != "file" && strings.TrimSpace(c.KafkaBootstrap) == "" {
		return fmt.Errorf("manifest_sink %q needs kafka_bootstrap", c.ManifestSink)
	}
	return nil
}

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"orderdash/internal/export"
	"orderdash/internal/metrics"
	"orderdash/internal/model"
	"orderdash/internal/obs"
	"orderdash/internal/orders"
)

// Config holds CLI flags for genorders.
type Config struct {
	Start    string
	End      string
	Preset   string
	Store    string
	Supplier string
	Item     string
	Output   string
	// Sinks
	Sink           string // file|kafka|both|tx
	KafkaBootstrap string
	Topic          string
	TxID           string // generated when empty in tx mode
	Pushgateway    string // push export metrics here when set
	LogLevel       string
}

func main() {
	cfg := readFlags()
	obs.InitLogger(cfg.LogLevel)
	if err := run(context.Background(), cfg, metrics.NewRegistry(), time.Now()); err != nil {
		obs.Logger.Error("genorders_failed", "error", err.Error())
		os.Exit(1)
	}
}

func readFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Start, "start", "", "first day, YYYY-MM-DD")
	flag.StringVar(&cfg.End, "end", "", "last day, YYYY-MM-DD")
	flag.StringVar(&cfg.Preset, "preset", orders.PresetLast7Days, "date preset when start/end are not set")
	flag.StringVar(&cfg.Store, "store", "", "comma-separated store names")
	flag.StringVar(&cfg.Supplier, "supplier", "", "comma-separated supplier names")
	flag.StringVar(&cfg.Item, "item", "", "comma-separated item numbers")
	flag.StringVar(&cfg.Output, "output", "orders.jsonl", "output file for file sink")
	flag.StringVar(&cfg.Sink, "sink", "file", "sink: file|kafka|both|tx")
	flag.StringVar(&cfg.KafkaBootstrap, "kafka-bootstrap", "", "kafka bootstrap servers, e.g. localhost:9092")
	flag.StringVar(&cfg.Topic, "topic", "orderdash.orders", "kafka topic for orders")
	flag.StringVar(&cfg.TxID, "tx-id", "", "transactional id for tx sink")
	flag.StringVar(&cfg.Pushgateway, "pushgateway", "", "prometheus pushgateway URL for export metrics")
	flag.StringVar(&cfg.LogLevel, "log-level", "info", "debug|info|warn|error")
	flag.Parse()
	return cfg
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (c Config) filters() *model.Filters {
	f := &model.Filters{
		StoreNames:    splitList(c.Store),
		SupplierNames: splitList(c.Supplier),
		ItemNumbers:   splitList(c.Item),
	}
	if f.Empty() {
		return nil
	}
	return f
}

func (c Config) dateRange(now time.Time) (time.Time, time.Time, error) {
	if c.Start == "" && c.End == "" {
		return orders.PresetRange(c.Preset, now)
	}
	start, err := orders.ParseDate(c.Start, now.Location())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := orders.ParseDate(c.End, now.Location())
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// run generates and exports, then pushes the export metrics when a
// Pushgateway is configured. A failed push is logged, not returned.
func run(ctx context.Context, cfg Config, mreg *metrics.Registry, now time.Time) error {
	err := generateAndExport(ctx, cfg, mreg, now)
	if cfg.Pushgateway != "" {
		if perr := mreg.Push(ctx, cfg.Pushgateway, "genorders"); perr != nil {
			obs.Logger.Warn("metrics_push_failed", "gateway", cfg.Pushgateway, "error", perr.Error())
		}
	}
	return err
}

func generateAndExport(ctx context.Context, cfg Config, mreg *metrics.Registry, now time.Time) error {
	start, end, err := cfg.dateRange(now)
	if err != nil {
		return err
	}
	list, err := orders.Generate(start, end, cfg.filters())
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	obs.Logger.Info("orders_generated",
		"start", start.Format(orders.DateLayout),
		"end", end.Format(orders.DateLayout),
		"orders", len(list),
	)

	if cfg.Sink == "tx" {
		return runTx(ctx, cfg, mreg, list)
	}

	w, err := buildWriter(cfg)
	if err != nil {
		return err
	}
	n, err := export.WriteAll(ctx, w, list)
	mreg.OrdersExported.Add(float64(n))
	if err != nil {
		mreg.ExportFailures.Inc()
		return err
	}
	obs.Logger.Info("orders_exported", "sink", cfg.Sink, "orders", n)
	return nil
}

func buildWriter(cfg Config) (export.Writer, error) {
	var w export.Writer
	if cfg.Sink == "file" || cfg.Sink == "both" {
		fw, err := export.NewFileWriter(cfg.Output)
		if err != nil {
			return nil, fmt.Errorf("init file sink: %w", err)
		}
		if err := fw.Truncate(); err != nil {
			return nil, fmt.Errorf("truncate %s: %w", cfg.Output, err)
		}
		w = fw
	}
	if cfg.Sink == "kafka" || cfg.Sink == "both" {
		if cfg.KafkaBootstrap == "" {
			return nil, fmt.Errorf("sink %q needs -kafka-bootstrap", cfg.Sink)
		}
		kw := export.NewKafkaWriter(cfg.KafkaBootstrap, cfg.Topic)
		if w == nil {
			w = kw
		} else {
			w = export.NewMultiWriter(w, kw)
		}
	}
	if w == nil {
		return nil, fmt.Errorf("unknown sink %q", cfg.Sink)
	}
	return w, nil
}

func runTx(ctx context.Context, cfg Config, mreg *metrics.Registry, list []model.Order) error {
	if cfg.KafkaBootstrap == "" {
		return fmt.Errorf("sink tx needs -kafka-bootstrap")
	}
	txID := cfg.TxID
	if txID == "" {
		txID = "genorders-" + uuid.NewString()
	}
	tw, closeFn, err := export.NewTxWriter(ctx, cfg.KafkaBootstrap, cfg.Topic, txID)
	if err != nil {
		return err
	}
	defer closeFn()

	t0 := time.Now()
	if err := tw.WriteBatch(ctx, list); err != nil {
		mreg.ExportFailures.Inc()
		return err
	}
	mreg.ExportTxLatencySec.Observe(time.Since(t0).Seconds())
	mreg.OrdersExported.Add(float64(len(list)))
	obs.Logger.Info("orders_exported", "sink", "tx", "tx_id", txID, "orders", len(list))
	return nil
}

// Package export writes generated orders to JSONL files and Kafka topics.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/segmentio/kafka-go"

	"orderdash/internal/model"
)

// Writer receives orders one at a time.
type Writer interface {
	Append(ctx context.Context, o model.Order) error
}

// MultiWriter fans out writes to multiple underlying writers.
type MultiWriter struct {
	writers []Writer
}

func NewMultiWriter(ws ...Writer) *MultiWriter {
	return &MultiWriter{writers: ws}
}

func (m *MultiWriter) Append(ctx context.Context, o model.Order) error {
	for _, w := range m.writers {
		if err := w.Append(ctx, o); err != nil {
			return err
		}
	}
	return nil
}

// FileWriter appends one JSON order per line.
type FileWriter struct {
	path string
}

func NewFileWriter(path string) (*FileWriter, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}
	return &FileWriter{path: path}, nil
}

// Truncate empties the file so a rerun does not duplicate lines.
func (w *FileWriter) Truncate() error {
	if err := os.WriteFile(w.path, nil, 0o644); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	return nil
}

func (w *FileWriter) Append(_ context.Context, o model.Order) error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(&o); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// KafkaWriter publishes each order keyed by order number.
type KafkaWriter struct {
	writer kafkaMessageWriter
}

// kafkaMessageWriter abstracts kafka.Writer for testability.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// SplitBrokers turns a comma-separated bootstrap list into addresses.
func SplitBrokers(bootstrap string) []string {
	var brokers []string
	for _, a := range strings.Split(bootstrap, ",") {
		if a = strings.TrimSpace(a); a != "" {
			brokers = append(brokers, a)
		}
	}
	return brokers
}

func NewKafkaWriter(bootstrap string, topic string) *KafkaWriter {
	return &KafkaWriter{writer: &kafka.Writer{
		Addr:         kafka.TCP(SplitBrokers(bootstrap)...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}}
}

// NewKafkaWriterWith is only for tests to inject a fake writer.
func NewKafkaWriterWith(w kafkaMessageWriter) *KafkaWriter {
	return &KafkaWriter{writer: w}
}

func (k *KafkaWriter) Append(ctx context.Context, o model.Order) error {
	b, err := json.Marshal(&o)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return k.writer.WriteMessages(ctx, kafka.Message{Key: []byte(o.OrderNumber), Value: b})
}

// WriteAll appends every order in list order and stops at the first error.
func WriteAll(ctx context.Context, w Writer, list []model.Order) (int, error) {
	for i, o := range list {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := w.Append(ctx, o); err != nil {
			return i, fmt.Errorf("append %s: %w", o.OrderNumber, err)
		}
	}
	return len(list), nil
}

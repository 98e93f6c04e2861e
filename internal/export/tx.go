package export

import (
	"context"
	"encoding/json"
	"fmt"

	ck "github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"orderdash/internal/model"
)

// txProducer is the subset of *ck.Producer used by TxWriter.
type txProducer interface {
	BeginTransaction() error
	Produce(msg *ck.Message, deliveryChan chan ck.Event) error
	Flush(timeoutMs int) int
	CommitTransaction(ctx context.Context) error
	AbortTransaction(ctx context.Context) error
}

// TxWriter publishes a whole order set inside one Kafka transaction, so
// consumers reading committed data see all of a range or none of it.
type TxWriter struct {
	producer     txProducer
	topic        string
	flushTimeout int
}

// NewTxWriter creates an idempotent transactional producer and initialises
// its transactions. The returned func closes the producer.
func NewTxWriter(ctx context.Context, bootstrap, topic, txID string) (*TxWriter, func(), error) {
	p, err := ck.NewProducer(&ck.ConfigMap{
		"bootstrap.servers":  bootstrap,
		"enable.idempotence": true,
		"acks":               "all",
		"transactional.id":   txID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("producer: %w", err)
	}
	if err := p.InitTransactions(ctx); err != nil {
		p.Close()
		return nil, nil, fmt.Errorf("init tx: %w", err)
	}
	return &TxWriter{producer: p, topic: topic, flushTimeout: 5000}, p.Close, nil
}

// NewTxWriterWith is only for tests to inject a fake producer.
func NewTxWriterWith(p txProducer, topic string) *TxWriter {
	return &TxWriter{producer: p, topic: topic, flushTimeout: 5000}
}

// WriteBatch produces every order and commits; any failure aborts the
// transaction and nothing becomes visible.
func (w *TxWriter) WriteBatch(ctx context.Context, list []model.Order) error {
	if err := w.producer.BeginTransaction(); err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	for _, o := range list {
		b, err := json.Marshal(&o)
		if err != nil {
			return w.abort(ctx, fmt.Errorf("marshal %s: %w", o.OrderNumber, err))
		}
		msg := &ck.Message{
			TopicPartition: ck.TopicPartition{Topic: &w.topic, Partition: ck.PartitionAny},
			Key:            []byte(o.OrderNumber),
			Value:          b,
		}
		if err := w.producer.Produce(msg, nil); err != nil {
			return w.abort(ctx, fmt.Errorf("produce %s: %w", o.OrderNumber, err))
		}
	}
	if remaining := w.producer.Flush(w.flushTimeout); remaining > 0 {
		return w.abort(ctx, fmt.Errorf("flush: %d messages undelivered", remaining))
	}
	if err := w.producer.CommitTransaction(ctx); err != nil {
		return w.abort(ctx, fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

func (w *TxWriter) abort(ctx context.Context, cause error) error {
	if err := w.producer.AbortTransaction(ctx); err != nil {
		return fmt.Errorf("%w (abort: %v)", cause, err)
	}
	return cause
}

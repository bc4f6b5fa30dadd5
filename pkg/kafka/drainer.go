// Package kafka provides Kafka producer and bounded reader clients backed by
// segmentio/kafka-go. The producer serialises events as JSON; the Drainer
// replays a topic up to its current end and hands each message to a
// MessageHandler.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/config"
	"github.com/segmentio/kafka-go"
)

// MessageHandler is a callback invoked for each Kafka message. Returning an
// error stops the drain.
type MessageHandler func(ctx context.Context, key []byte, value []byte) error

// Drainer reads a topic from the beginning up to the high-water mark
// observed when Drain starts.
type Drainer struct {
	brokers []string
	topic   string
	logger  *slog.Logger
}

// NewDrainer creates a Drainer for the given topic.
func NewDrainer(cfg config.KafkaConfig, topic string) *Drainer {
	return &Drainer{
		brokers: cfg.Brokers,
		topic:   topic,
		logger:  slog.Default().With("component", "kafka-drainer", "topic", topic),
	}
}

// Topic returns the topic being drained.
func (d *Drainer) Topic() string {
	return d.topic
}

// Drain delivers every retained message of every partition, partitions in
// ascending id order, offsets in ascending order within a partition.
func (d *Drainer) Drain(ctx context.Context, handler MessageHandler) error {
	partitions, err := d.partitions(ctx)
	if err != nil {
		return err
	}
	total := 0
	for _, p := range partitions {
		n, err := d.drainPartition(ctx, p.ID, handler)
		total += n
		if err != nil {
			return fmt.Errorf("partition %d: %w", p.ID, err)
		}
	}
	d.logger.Info("topic drained", "partitions", len(partitions), "messages", total)
	return nil
}

// Ping checks that a broker is reachable and the topic exists.
func (d *Drainer) Ping(ctx context.Context) error {
	_, err := d.partitions(ctx)
	return err
}

func (d *Drainer) partitions(ctx context.Context) ([]kafka.Partition, error) {
	if len(d.brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", d.brokers[0])
	if err != nil {
		return nil, fmt.Errorf("dialing kafka: %w", err)
	}
	defer conn.Close()
	partitions, err := conn.ReadPartitions(d.topic)
	if err != nil {
		return nil, fmt.Errorf("reading partitions: %w", err)
	}
	if len(partitions) == 0 {
		return nil, fmt.Errorf("topic %s has no partitions", d.topic)
	}
	sort.Slice(partitions, func(i, j int) bool {
		return partitions[i].ID < partitions[j].ID
	})
	return partitions, nil
}

func (d *Drainer) drainPartition(ctx context.Context, partition int, handler MessageHandler) (int, error) {
	leader, err := kafka.DialLeader(ctx, "tcp", d.brokers[0], d.topic, partition)
	if err != nil {
		return 0, fmt.Errorf("dialing leader: %w", err)
	}
	first, last, err := leader.ReadOffsets()
	leader.Close()
	if err != nil {
		return 0, fmt.Errorf("reading offsets: %w", err)
	}
	if last <= first {
		return 0, nil
	}

	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   d.brokers,
		Topic:     d.topic,
		Partition: partition,
		MinBytes:  1,
		MaxBytes:  10e6,
	})
	defer r.Close()
	if err := r.SetOffset(first); err != nil {
		return 0, fmt.Errorf("seeking to offset %d: %w", first, err)
	}

	count := 0
	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			return count, fmt.Errorf("reading message: %w", err)
		}
		d.logger.Debug("message received",
			"partition", msg.Partition,
			"offset", msg.Offset,
			"value_size", len(msg.Value),
		)
		if err := handler(ctx, msg.Key, msg.Value); err != nil {
			return count, fmt.Errorf("handling offset %d: %w", msg.Offset, err)
		}
		count++
		if msg.Offset >= last-1 {
			return count, nil
		}
	}
}

// DecodeJSON is a generic helper that unmarshals a Kafka message value into T.
func DecodeJSON[T any](value []byte) (T, error) {
	var result T
	if err := json.Unmarshal(value, &result); err != nil {
		return result, fmt.Errorf("decoding kafka message: %w", err)
	}
	return result, nil
}

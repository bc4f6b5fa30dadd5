package corpus

import (
	"context"

	"github.com/Adithya-Monish-Kumar-K/abstract-search/pkg/kafka"
)

// KafkaSource reads every document currently retained in a topic. Messages
// carry a JSON encoded RawDocument. Partitions are read in id order, each
// from its first to its last offset at the time Scan starts, so the
// sequence is finite.
type KafkaSource struct {
	drainer *kafka.Drainer
}

// NewKafkaSource returns a Source over d.
func NewKafkaSource(d *kafka.Drainer) *KafkaSource {
	return &KafkaSource{drainer: d}
}

func (s *KafkaSource) Name() string {
	return "kafka:" + s.drainer.Topic()
}

func (s *KafkaSource) Scan(ctx context.Context, fn func(RawDocument) error) error {
	return s.drainer.Drain(ctx, func(ctx context.Context, key []byte, value []byte) error {
		raw, err := kafka.DecodeJSON[RawDocument](value)
		if err != nil {
			return err
		}
		return fn(raw)
	})
}

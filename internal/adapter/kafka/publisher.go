// Package kafka publishes finished snapshots to a distribution topic so
// downstream packaging jobs can pick up new tables without polling the build
// host. Publishing is optional and feature-flagged in config.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aliceisjustplaying/tidface/internal/config"
	"github.com/aliceisjustplaying/tidface/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces snapshot messages to the configured topic.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a producer for the snapshot topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.SnapshotTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes the snapshot and writes it as a single message keyed by
// year, so topic compaction keeps exactly the latest table per year.
func (p *Publisher) Publish(ctx context.Context, snap domain.Snapshot) error {
	msg, err := serializeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	p.logger.Info("snapshot published",
		"year", snap.Year,
		"buckets", len(snap.Buckets),
		"codes", len(snap.CodePool),
	)
	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeSnapshot marshals a snapshot into a Kafka message.
func serializeSnapshot(snap domain.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.Itoa(snap.Year)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "generated_at", Value: []byte(snap.GeneratedAt.Format(time.RFC3339))},
			{Key: "bucket_count", Value: []byte(strconv.Itoa(len(snap.Buckets)))},
		},
	}, nil
}

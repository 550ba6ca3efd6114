// Package ingest consumes the game-server event topic and feeds the
// dispatcher channel.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/astrocraft-network/stats-api/internal/events"
)

// Config groups the Kafka settings for the event topic.
type Config struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Consumer reads JSON-encoded game events off one topic.
type Consumer struct {
	reader *kafka.Reader
	out    chan<- events.Event
	log    *slog.Logger
}

// NewConsumer builds a consumer over the configured topic. Events are handed
// to out in arrival order; the channel is never closed by the consumer.
func NewConsumer(cfg Config, out chan<- events.Event, log *slog.Logger) (*Consumer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic must not be empty")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		GroupID:     cfg.GroupID,
		Topic:       cfg.Topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &Consumer{reader: reader, out: out, log: log}, nil
}

// Run fetches messages until the context ends, retrying transient broker
// failures with capped backoff. Offsets are committed only after the event
// has been accepted onto the channel, so a crash replays rather than drops.
func (c *Consumer) Run(ctx context.Context) error {
	defer func() {
		if err := c.reader.Close(); err != nil {
			c.log.Error("Failed to close kafka reader", "error", err)
		}
	}()
	c.log.Info("Event consumer started", "topic", c.reader.Config().Topic)

	backoff := time.Second
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			c.log.Error("Failed to fetch message", "error", err)
			select {
			case <-time.After(backoff):
				if backoff < 10*time.Second {
					backoff *= 2
				}
				continue
			case <-ctx.Done():
				return nil
			}
		}
		backoff = time.Second

		event, err := decodeEvent(msg.Value)
		if err != nil {
			// Poison messages are committed and skipped, they never heal.
			c.log.Warn("Dropping undecodable message",
				"offset", msg.Offset, "partition", msg.Partition, "error", err)
		} else {
			select {
			case c.out <- event:
			case <-ctx.Done():
				return nil
			}
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			c.log.Error("Failed to commit offset", "offset", msg.Offset, "error", err)
		}
	}
}

// decodeEvent unmarshals one message body, assigning an id when the producer
// sent none.
func decodeEvent(body []byte) (events.Event, error) {
	var event events.Event
	if err := json.Unmarshal(body, &event); err != nil {
		return events.Event{}, fmt.Errorf("decode event: %w", err)
	}
	if err := event.Validate(); err != nil {
		return events.Event{}, err
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	return event, nil
}

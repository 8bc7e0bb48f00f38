// Package publish emits detected events to a Kafka topic so downstream
// consumers (dashboards, alerting) see new episodes without polling the
// output directory.
package publish

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"thermopoll/internal/config"
	"thermopoll/internal/model"
)

type Publisher struct {
	writer *kafka.Writer
	logger *slog.Logger
}

type eventMessage struct {
	RunID string `json:"run_id"`
	model.Event
}

// NewPublisher returns nil when publishing is disabled; callers treat a nil
// Publisher as "skip".
func NewPublisher(cfg config.PublishConfig, logger *slog.Logger) *Publisher {
	if !cfg.Enabled {
		if logger != nil {
			logger.Info("event publishing disabled")
		}
		return nil
	}
	if logger != nil {
		logger.Info("event publishing enabled", "brokers", cfg.Brokers, "topic", cfg.Topic)
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(cfg.Brokers...),
			Topic:    cfg.Topic,
			Balancer: &kafka.LeastBytes{},
		},
		logger: logger,
	}
}

// PublishEvents writes one message per event, keyed by variable so readers
// of a partitioned topic see each series in order.
func (p *Publisher) PublishEvents(ctx context.Context, runID string, events []model.Event) error {
	if p == nil || p.writer == nil || len(events) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		payload, err := json.Marshal(eventMessage{RunID: runID, Event: ev})
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(ev.Variable),
			Value: payload,
		})
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		if p.logger != nil {
			p.logger.Warn("kafka publish error", "err", err)
		}
		return err
	}
	if p.logger != nil {
		p.logger.Info("events published", "count", len(msgs))
	}
	return nil
}

func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

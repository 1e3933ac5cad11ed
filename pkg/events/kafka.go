package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

type Outcome string

const (
	OutcomeOK       Outcome = "ok"
	OutcomeRejected Outcome = "rejected"
	OutcomeAPIError Outcome = "api_error"
	OutcomeFailed   Outcome = "failed"
	OutcomeDenied   Outcome = "denied"
)

// CommandEvent records one command invocation for the audit stream.
type CommandEvent struct {
	CorrelationID string    `json:"correlation_id"`
	Command       string    `json:"command"`
	UserID        string    `json:"user_id"`
	GuildID       string    `json:"guild_id"`
	Outcome       Outcome   `json:"outcome"`
	Timestamp     time.Time `json:"timestamp"`
}

// Publisher writes command-audit events to Kafka. A nil Publisher is valid
// and drops everything, so auditing stays optional.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Publisher{writer: writer}
}

// PublishCommand writes one audit event. Failures are returned for logging
// only; the caller never surfaces them to users.
func (p *Publisher) PublishCommand(ctx context.Context, event CommandEvent) error {
	if p == nil {
		return nil
	}

	messageJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(uuid.New().String()),
		Value: messageJSON,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}

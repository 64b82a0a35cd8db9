package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// SyncEventPayload is the audit event published after every lead sync
// attempt, successful or not. Fire-and-forget: the sync itself never waits
// on the broker.
type SyncEventPayload struct {
	BatchID  string    `json:"batch_id,omitempty"`
	LeadID   string    `json:"lead_id"`
	LeadName string    `json:"lead_name,omitempty"`
	Success  bool      `json:"success"`
	Code     string    `json:"code,omitempty"`
	Error    string    `json:"error,omitempty"`
	SyncedAt time.Time `json:"synced_at"`
}

type SyncEventPublisherInterface interface {
	PublishOutcome(ctx context.Context, payload SyncEventPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{
		Conn: conn,
		Ch:   ch,
	}
}

func (p *RabbitMQProducer) PublishOutcome(ctx context.Context, payload SyncEventPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshalling sync event: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName, // ex.leads
		RoutingKey,   // k.sync-outcome
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // survives a broker restart
		},
	)
	if err != nil {
		return fmt.Errorf("publishing sync event: %w", err)
	}

	return nil
}

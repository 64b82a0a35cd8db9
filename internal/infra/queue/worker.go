package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AlertSender is whoever tells a human that a lead failed to reach the CRM.
type AlertSender interface {
	SendSyncFailureAlert(to, leadID, leadName, code, reason string) error
}

// Worker drains sync-outcome events and raises alerts for the failed ones.
// Decoupled from the database on purpose: everything it needs is in the
// message.
type Worker struct {
	Channel *amqp.Channel
	Alerts  AlertSender
	AlertTo string
}

func NewWorker(ch *amqp.Channel, alerts AlertSender, alertTo string) *Worker {
	return &Worker{
		Channel: ch,
		Alerts:  alerts,
		AlertTo: alertTo,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual is safer)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ [WORKER] failed to register RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload SyncEventPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] malformed sync event: %s", err)
				// Poison message. Reject without requeue so it dead-letters
				// instead of clogging the queue.
				d.Nack(false, false)
				continue
			}

			if err := w.processEvent(payload); err != nil {
				log.Printf("❌ [WORKER] alert delivery failed for %s: %s", payload.LeadID, err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker running, waiting on queue '%s'", queueName)
	<-forever
}

func (w *Worker) processEvent(payload SyncEventPayload) error {
	if payload.Success {
		// Success events are audit-only for now. Ack and move on.
		return nil
	}

	log.Printf("⚠️ [WORKER] sync failed for %s (%s): %s", payload.LeadID, payload.Code, payload.Error)

	if w.Alerts == nil || w.AlertTo == "" {
		return nil
	}

	return w.Alerts.SendSyncFailureAlert(w.AlertTo, payload.LeadID, payload.LeadName, payload.Code, payload.Error)
}

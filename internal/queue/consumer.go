package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// StartReservationConsumer connects to RabbitMQ, declares the durable
// reservation queue, and consumes lifecycle events, appending one
// formatted line per event to logs/reservations.log.  It runs a
// reconnect loop with exponential backoff and keeps running across
// broker restarts; malformed messages are rejected without requeue so
// the stream keeps flowing.
func StartReservationConsumer(brokerURL string) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(brokerURL)
		if err != nil {
			log.Printf("reservation-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := consumeLoop(conn); err != nil {
			log.Printf("reservation-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(ReservationQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	deliveries, err := ch.Consume(ReservationQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for d := range deliveries {
		line, err := formatDelivery(d.Body)
		if err != nil {
			log.Printf("reservation-consumer: bad message: %v", err)
			_ = d.Reject(false)
			continue
		}
		if err := appendLogLine(line); err != nil {
			log.Printf("reservation-consumer: write log: %v", err)
			_ = d.Reject(true)
			continue
		}
		_ = d.Ack(false)
	}
	return fmt.Errorf("delivery channel closed")
}

// formatDelivery turns an envelope payload into a single log line.
func formatDelivery(body []byte) (string, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return "", fmt.Errorf("decode envelope: %w", err)
	}
	switch env.Type {
	case TypeReservationCreated:
		var ev ReservationCreatedEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return "", fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return fmt.Sprintf("%s reservation=%d resource=%q requester=%s options=%d created",
			ev.CreatedAt, ev.ReservationID, ev.ResourceName, ev.RequesterID, len(ev.SelectedOptions)), nil
	case TypeReservationStatusChanged:
		var ev ReservationStatusChangedEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			return "", fmt.Errorf("decode %s: %w", env.Type, err)
		}
		return fmt.Sprintf("%s reservation=%d resource=%q requester=%s status %s -> %s",
			ev.ChangedAt, ev.ReservationID, ev.ResourceName, ev.RequesterID, ev.OldStatus, ev.NewStatus), nil
	}
	return "", fmt.Errorf("unknown event type %q", env.Type)
}

// appendLogLine appends line to logs/reservations.log, creating the
// directory on first use.
func appendLogLine(line string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join("logs", "reservations.log"),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = fmt.Fprintln(f, line)
	return err
}

// Package queue defines reservation lifecycle messages exchanged over
// the broker and the background consumer that records them.
package queue

import "encoding/json"

// ReservationQueueName is the durable queue carrying reservation
// lifecycle events.
const ReservationQueueName = "reservation.events"

// Event types carried in the envelope.
const (
	TypeReservationCreated       = "reservation.created"
	TypeReservationStatusChanged = "reservation.status_changed"
)

// Envelope wraps every message with its type so consumers can decode
// the payload without guessing.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ReservationCreatedEvent is published when a reservation is created.
// It carries enough for downstream consumers to log or notify without
// querying the primary database.
type ReservationCreatedEvent struct {
	ReservationID   uint64   `json:"reservation_id"`
	ResourceID      uint64   `json:"resource_id"`
	ResourceName    string   `json:"resource_name"`
	RequesterID     string   `json:"requester_id"`
	SelectedOptions []uint64 `json:"selected_options"`
	CreatedAt       string   `json:"created_at"`
}

// ReservationStatusChangedEvent is published when an administrator
// moves a reservation to a new status.
type ReservationStatusChangedEvent struct {
	ReservationID uint64 `json:"reservation_id"`
	ResourceName  string `json:"resource_name"`
	RequesterID   string `json:"requester_id"`
	OldStatus     string `json:"old_status"`
	NewStatus     string `json:"new_status"`
	ChangedAt     string `json:"changed_at"`
}

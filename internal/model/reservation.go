package model

import "time"

// ReservationStatus is the closed set of states a reservation can be
// in.  A reservation starts as pending and only an administrator moves
// it to confirmed or cancelled; both are terminal.  Any other value is
// rejected before it reaches storage.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// Valid reports whether s is one of the three enumerated statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Reservation records a request by a profile to book a resource with a
// chosen set of option values.  The requester is identified by the
// external subject id taken from the verified token, not by a foreign
// key to profiles, so reservations survive even if the profile row is
// reconciled later.  Selected option values live in the
// reservation_options join table.
//
// Fields:
//  ID          – primary key identifier.
//  ResourceID  – resource being reserved (ON DELETE CASCADE).
//  RequesterID – external subject id of the requester (indexed).
//  Status      – lifecycle state (pending, confirmed, cancelled).
//  CreatedAt   – timestamp of creation.
type Reservation struct {
	ID          uint64            // reservations.id
	ResourceID  uint64            // reservations.resource_id
	RequesterID string            // reservations.requester_id
	Status      ReservationStatus // reservations.status
	CreatedAt   time.Time         // reservations.created_at
}

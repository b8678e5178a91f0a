// Package repository implements storage access over database/sql.
// Sentinel errors defined here let handlers distinguish failure
// scenarios without inspecting driver errors: for example
// ErrReservationNotFound maps to a 404 while ErrOptionValueNotFound is
// a 400-level validation failure on the request payload.
package repository

import "errors"

// ErrResourceNotFound is returned when a referenced resource does not
// exist (or, for public reads, is inactive).
var ErrResourceNotFound = errors.New("resource not found")

// ErrReservationNotFound is returned when no reservation matches the
// requested id.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrOptionValueNotFound is returned when a reservation references an
// option value id that does not exist.
var ErrOptionValueNotFound = errors.New("option value not found")

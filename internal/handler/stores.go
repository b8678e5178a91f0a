// Package handler exposes the HTTP handlers for the catalog and
// reservation APIs.  Handlers depend on narrow store interfaces so
// tests can substitute fakes; the repository types satisfy them.
package handler

import (
	"context"

	"github.com/rturenne/catalog-reservation/internal/model"
	"github.com/rturenne/catalog-reservation/internal/repository"
)

// CategoryStore lists the active catalog categories.
type CategoryStore interface {
	ListActive(ctx context.Context) ([]model.Category, error)
}

// ResourceStore reads active resources with their photos and options.
type ResourceStore interface {
	ListActive(ctx context.Context, categorySlug string) ([]repository.ResourceDetail, error)
	GetActive(ctx context.Context, id uint64) (repository.ResourceDetail, error)
}

// ReservationStore drives the reservation lifecycle.
type ReservationStore interface {
	Create(ctx context.Context, resourceID uint64, requesterID string, optionValueIDs []uint64) (repository.ReservationRecord, error)
	ListByRequester(ctx context.Context, subjectID string) ([]repository.ReservationRecord, error)
	ListAll(ctx context.Context) ([]repository.ReservationRecord, error)
	UpdateStatus(ctx context.Context, id uint64, status model.ReservationStatus) (repository.ReservationRecord, model.ReservationStatus, error)
}

// EventPublisher emits reservation lifecycle events.  Publishing is
// best effort: implementations log failures and the handlers ignore
// the returned error so a broker outage never fails a request.
type EventPublisher interface {
	ReservationCreated(ctx context.Context, rec repository.ReservationRecord) error
	ReservationStatusChanged(ctx context.Context, rec repository.ReservationRecord, previous model.ReservationStatus) error
}

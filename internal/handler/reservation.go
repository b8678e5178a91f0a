package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rturenne/catalog-reservation/internal/middleware"
	"github.com/rturenne/catalog-reservation/internal/repository"
)

// ReservationHandler serves the customer-facing reservation endpoints:
// creating a reservation and listing one's own.  Both require an
// authenticated principal; the requester id always comes from the
// verified token, never from the request body.
type ReservationHandler struct {
	Reservations ReservationStore
	Events       EventPublisher
}

// NewReservationHandler constructs a ReservationHandler.  Events may be
// nil when no broker is configured.
func NewReservationHandler(reservations ReservationStore, events EventPublisher) *ReservationHandler {
	if reservations == nil {
		panic("nil store passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: reservations, Events: events}
}

// ReservationResponse is the JSON shape of a reservation, enriched
// with the resource name and the requester's profile fields so the
// administrative view is readable without extra lookups.
type ReservationResponse struct {
	ID                 uint64    `json:"id"`
	Resource           uint64    `json:"resource"`
	ResourceName       string    `json:"resource_name"`
	RequesterID        string    `json:"requester_id"`
	RequesterEmail     *string   `json:"requester_email"`
	RequesterFirstName *string   `json:"requester_first_name"`
	RequesterLastName  *string   `json:"requester_last_name"`
	SelectedOptions    []uint64  `json:"selected_options"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

// Create handles POST /reservations/.  The body names a resource and
// optional selected option value ids; status is forced to pending and
// any client-supplied status or requester field is ignored.
func (h *ReservationHandler) Create(c echo.Context) error {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	var body struct {
		Resource        uint64   `json:"resource"`
		SelectedOptions []uint64 `json:"selected_options"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Resource == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "resource is required"})
	}

	ctx := c.Request().Context()
	rec, err := h.Reservations.Create(ctx, body.Resource, p.SubjectID, body.SelectedOptions)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrResourceNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "resource does not exist", "field": "resource"})
		case errors.Is(err, repository.ErrOptionValueNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown option value", "field": "selected_options"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if h.Events != nil {
		_ = h.Events.ReservationCreated(ctx, rec)
	}
	return c.JSON(http.StatusCreated, reservationResponse(rec))
}

// ListMine handles GET /my-reservations/: the reservations whose
// requester id matches the caller's subject id, newest first.
func (h *ReservationHandler) ListMine(c echo.Context) error {
	p := middleware.PrincipalFrom(c)
	if p == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	recs, err := h.Reservations.ListByRequester(c.Request().Context(), p.SubjectID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, reservationResponses(recs))
}

func reservationResponse(rec repository.ReservationRecord) ReservationResponse {
	return ReservationResponse{
		ID:                 rec.ID,
		Resource:           rec.ResourceID,
		ResourceName:       rec.ResourceName,
		RequesterID:        rec.RequesterID,
		RequesterEmail:     rec.RequesterEmail,
		RequesterFirstName: rec.RequesterFirstName,
		RequesterLastName:  rec.RequesterLastName,
		SelectedOptions:    rec.SelectedOptionIDs,
		Status:             string(rec.Status),
		CreatedAt:          rec.CreatedAt,
	}
}

func reservationResponses(recs []repository.ReservationRecord) []ReservationResponse {
	out := make([]ReservationResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, reservationResponse(rec))
	}
	return out
}

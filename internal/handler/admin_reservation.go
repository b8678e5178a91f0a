package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rturenne/catalog-reservation/internal/model"
	"github.com/rturenne/catalog-reservation/internal/repository"
)

// AdminReservationHandler serves the administrator view over
// reservations: the full unpaginated list and status transitions.
// Routes using it are wrapped in RequireAdmin; the handlers assume the
// principal has already been authorized.
type AdminReservationHandler struct {
	Reservations ReservationStore
	Events       EventPublisher
}

// NewAdminReservationHandler constructs an AdminReservationHandler.
func NewAdminReservationHandler(reservations ReservationStore, events EventPublisher) *AdminReservationHandler {
	if reservations == nil {
		panic("nil store passed to NewAdminReservationHandler")
	}
	return &AdminReservationHandler{Reservations: reservations, Events: events}
}

// ListAll handles GET /admin-reservations/.
func (h *AdminReservationHandler) ListAll(c echo.Context) error {
	recs, err := h.Reservations.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, reservationResponses(recs))
}

// UpdateStatus handles POST /admin-reservations/:id/status/.  The body
// carries the target status; anything outside the three enumerated
// values is a 400 validation error, an unknown reservation a 404.
func (h *AdminReservationHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := model.ReservationStatus(body.Status)
	if !status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status value", "field": "status"})
	}

	ctx := c.Request().Context()
	rec, previous, err := h.Reservations.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if h.Events != nil {
		_ = h.Events.ReservationStatusChanged(ctx, rec, previous)
	}
	return c.JSON(http.StatusOK, reservationResponse(rec))
}

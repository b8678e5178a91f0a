package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/rturenne/catalog-reservation/internal/model"
)

func TestUpdateStatusHappyPath(t *testing.T) {
	store := newFakeReservations()
	events := &fakeEvents{}
	h := NewAdminReservationHandler(store, events)

	created, err := store.Create(context.Background(), 1, "usr_123", []uint64{10})
	if err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, h.UpdateStatus, http.MethodPost, "/admin-reservations/1/status/",
		`{"status":"confirmed"}`, principal("usr_admin", true), map[string]string{"id": "1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body=%s", rec.Code, rec.Body.String())
	}
	var resp ReservationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != created.ID || resp.Status != string(model.StatusConfirmed) {
		t.Errorf("response = %+v", resp)
	}
	if got := store.rows[created.ID].Status; got != model.StatusConfirmed {
		t.Errorf("stored status = %q, want confirmed", got)
	}
	if events.statusChanged != 1 {
		t.Errorf("status events = %d, want 1", events.statusChanged)
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	store := newFakeReservations()
	h := NewAdminReservationHandler(store, nil)

	if _, err := store.Create(context.Background(), 1, "usr_123", nil); err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, h.UpdateStatus, http.MethodPost, "/admin-reservations/1/status/",
		`{"status":"approved"}`, principal("usr_admin", true), map[string]string{"id": "1"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if got := store.rows[1].Status; got != model.StatusPending {
		t.Errorf("stored status = %q, row must be unchanged", got)
	}
}

func TestUpdateStatusUnknownReservation(t *testing.T) {
	h := NewAdminReservationHandler(newFakeReservations(), nil)
	rec := doJSON(t, h.UpdateStatus, http.MethodPost, "/admin-reservations/42/status/",
		`{"status":"confirmed"}`, principal("usr_admin", true), map[string]string{"id": "42"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateStatusInvalidID(t *testing.T) {
	h := NewAdminReservationHandler(newFakeReservations(), nil)
	rec := doJSON(t, h.UpdateStatus, http.MethodPost, "/admin-reservations/x/status/",
		`{"status":"confirmed"}`, principal("usr_admin", true), map[string]string{"id": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListAllReturnsEveryReservation(t *testing.T) {
	store := newFakeReservations()
	h := NewAdminReservationHandler(store, nil)
	for _, sub := range []string{"usr_a", "usr_b", "usr_c"} {
		if _, err := store.Create(context.Background(), 1, sub, nil); err != nil {
			t.Fatal(err)
		}
	}

	rec := doJSON(t, h.ListAll, http.MethodGet, "/admin-reservations/", "", principal("usr_admin", true), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp []ReservationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 3 {
		t.Errorf("len = %d, want 3", len(resp))
	}
}

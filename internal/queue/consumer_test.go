package queue

import (
	"encoding/json"
	"strings"
	"testing"
)

func envelope(t *testing.T, typ string, payload interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	body, err := json.Marshal(Envelope{Type: typ, Data: data})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func TestFormatDeliveryCreated(t *testing.T) {
	body := envelope(t, TypeReservationCreated, ReservationCreatedEvent{
		ReservationID:   7,
		ResourceID:      1,
		ResourceName:    "Red Canoe",
		RequesterID:     "usr_123",
		SelectedOptions: []uint64{10, 11},
		CreatedAt:       "2026-08-30T10:00:00Z",
	})
	line, err := formatDelivery(body)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	for _, want := range []string{"reservation=7", `resource="Red Canoe"`, "requester=usr_123", "options=2"} {
		if !strings.Contains(line, want) {
			t.Errorf("line %q missing %q", line, want)
		}
	}
}

func TestFormatDeliveryStatusChanged(t *testing.T) {
	body := envelope(t, TypeReservationStatusChanged, ReservationStatusChangedEvent{
		ReservationID: 7,
		ResourceName:  "Red Canoe",
		RequesterID:   "usr_123",
		OldStatus:     "pending",
		NewStatus:     "confirmed",
		ChangedAt:     "2026-08-30T10:05:00Z",
	})
	line, err := formatDelivery(body)
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if !strings.Contains(line, "pending -> confirmed") {
		t.Errorf("line %q missing transition", line)
	}
}

func TestFormatDeliveryRejectsBadMessages(t *testing.T) {
	if _, err := formatDelivery([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := formatDelivery(envelope(t, "reservation.unknown", struct{}{})); err == nil {
		t.Error("expected error for unknown type")
	}
}

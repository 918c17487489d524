package booking

import "testing"

func TestViewForClient(t *testing.T) {
	tests := []struct {
		status    Status
		label     string
		clickable bool
	}{
		{StatusPending, "Request sent", false},
		{StatusExpired, "Request expired", false},
		{StatusScheduled, "Appointment confirmed", true},
		{StatusRescheduled, "Appointment rescheduled", true},
		{StatusCancelled, "Cancelled", false},
		{StatusCompleted, "Completed - leave a review", true},
	}

	for _, tt := range tests {
		view := ViewFor(tt.status, "client")
		if view.Label != tt.label {
			t.Errorf("client %s: label = %q, want %q", tt.status, view.Label, tt.label)
		}
		if view.Clickable != tt.clickable {
			t.Errorf("client %s: clickable = %v, want %v", tt.status, view.Clickable, tt.clickable)
		}
	}
}

func TestViewForArtist(t *testing.T) {
	tests := []struct {
		status    Status
		label     string
		clickable bool
	}{
		{StatusPending, "New request", true},
		{StatusExpired, "Request expired", false},
		{StatusScheduled, "Upcoming appointment", true},
		{StatusRescheduled, "Rescheduled appointment", true},
		{StatusCancelled, "Cancelled", false},
		{StatusCompleted, "Completed", true},
	}

	for _, tt := range tests {
		view := ViewFor(tt.status, "artist")
		if view.Label != tt.label {
			t.Errorf("artist %s: label = %q, want %q", tt.status, view.Label, tt.label)
		}
		if view.Clickable != tt.clickable {
			t.Errorf("artist %s: clickable = %v, want %v", tt.status, view.Clickable, tt.clickable)
		}
	}
}

func TestViewForUnknownStatusFallsBack(t *testing.T) {
	view := ViewFor(Status("archived"), "client")
	if view.Label != "archived" {
		t.Errorf("label = %q, want raw status", view.Label)
	}
	if view.Clickable {
		t.Error("unknown status should not be clickable")
	}
}

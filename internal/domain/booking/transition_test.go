package booking

import (
	"errors"
	"testing"
)

func TestTransitionLegalEdges(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		trigger Trigger
		want    Status
	}{
		{"pending schedule", StatusPending, TriggerSchedule, StatusScheduled},
		{"pending expire", StatusPending, TriggerExpire, StatusExpired},
		{"pending cancel", StatusPending, TriggerCancel, StatusCancelled},
		{"scheduled reschedule", StatusScheduled, TriggerReschedule, StatusRescheduled},
		{"scheduled cancel", StatusScheduled, TriggerCancel, StatusCancelled},
		{"scheduled complete", StatusScheduled, TriggerComplete, StatusCompleted},
		{"rescheduled reschedule", StatusRescheduled, TriggerReschedule, StatusRescheduled},
		{"rescheduled cancel", StatusRescheduled, TriggerCancel, StatusCancelled},
		{"rescheduled complete", StatusRescheduled, TriggerComplete, StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Transition(tt.current, tt.trigger)
			if err != nil {
				t.Fatalf("Transition(%s, %s) error: %v", tt.current, tt.trigger, err)
			}
			if got != tt.want {
				t.Errorf("Transition(%s, %s) = %s, want %s", tt.current, tt.trigger, got, tt.want)
			}
		})
	}
}

func TestTransitionIllegalEdgesRejected(t *testing.T) {
	statuses := []Status{
		StatusPending, StatusExpired, StatusScheduled,
		StatusRescheduled, StatusCancelled, StatusCompleted,
	}
	triggers := []Trigger{
		TriggerSchedule, TriggerExpire, TriggerReschedule,
		TriggerCancel, TriggerComplete,
	}

	for _, status := range statuses {
		for _, trigger := range triggers {
			if CanTransition(status, trigger) {
				continue
			}
			got, err := Transition(status, trigger)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Transition(%s, %s) err = %v, want ErrInvalidTransition", status, trigger, err)
			}
			if got != status {
				t.Errorf("Transition(%s, %s) mutated status to %s", status, trigger, got)
			}
		}
	}
}

func TestTerminalStatusesAdmitNoTransition(t *testing.T) {
	triggers := []Trigger{
		TriggerSchedule, TriggerExpire, TriggerReschedule,
		TriggerCancel, TriggerComplete,
	}

	for _, status := range []Status{StatusExpired, StatusCancelled, StatusCompleted} {
		if !status.IsTerminal() {
			t.Errorf("%s should be terminal", status)
		}
		for _, trigger := range triggers {
			if CanTransition(status, trigger) {
				t.Errorf("terminal status %s admits trigger %s", status, trigger)
			}
		}
	}
}

func TestNonTerminalStatuses(t *testing.T) {
	for _, status := range []Status{StatusPending, StatusScheduled, StatusRescheduled} {
		if status.IsTerminal() {
			t.Errorf("%s should not be terminal", status)
		}
	}
}
